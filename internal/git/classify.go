package git

import (
	"errors"
	"net"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"

	rperrors "remotepipe.dev/remotepipe/internal/errors"
)

var remoteNotFoundPattern = regexp.MustCompile(`repository '.*' not found`)

// ClassifyError tags a go-git failure with a checkout error kind. Errors that
// are already classified are returned unchanged.
func ClassifyError(url, branch string, err error) error {
	if err == nil {
		return nil
	}
	var checkoutErr *rperrors.CheckoutError
	if errors.As(err, &checkoutErr) {
		return err
	}
	return rperrors.NewCheckoutError(determineErrorKind(err), url, branch, err)
}

func determineErrorKind(err error) rperrors.CheckoutErrorKind {
	var noMatch git.NoMatchingRefSpecError
	switch {
	case errors.As(err, &noMatch),
		errors.Is(err, plumbing.ErrReferenceNotFound),
		errors.Is(err, rperrors.ErrRefNotFound):
		return rperrors.KindRefNotFound
	case errors.Is(err, transport.ErrAuthenticationRequired),
		errors.Is(err, transport.ErrAuthorizationFailed),
		errors.Is(err, transport.ErrInvalidAuthMethod):
		return rperrors.KindAuth
	case errors.Is(err, transport.ErrRepositoryNotFound),
		errors.Is(err, transport.ErrEmptyRemoteRepository):
		return rperrors.KindNetwork
	case errors.Is(err, rperrors.ErrDefinitionFileNotFound),
		errors.Is(err, os.ErrNotExist),
		errors.Is(err, os.ErrPermission):
		return rperrors.KindIO
	}

	var netErr net.Error
	var urlErr *url.Error
	if errors.As(err, &netErr) || errors.As(err, &urlErr) {
		return rperrors.KindNetwork
	}

	return determineErrorKindFromMessage(err.Error())
}

// determineErrorKindFromMessage classifies errors that only carry text, such
// as failures reported by git-upload-pack on stderr
func determineErrorKindFromMessage(msg string) rperrors.CheckoutErrorKind {
	switch {
	case strings.Contains(msg, "couldn't find remote ref"),
		strings.Contains(msg, "reference not found"),
		strings.Contains(msg, "unknown revision or path not in the working tree"):
		return rperrors.KindRefNotFound
	case strings.Contains(msg, "could not read Username"),
		strings.Contains(msg, "authentication required"),
		strings.Contains(msg, "authorization failed"):
		return rperrors.KindAuth
	case strings.Contains(msg, "Could not resolve host"),
		strings.Contains(msg, "connection refused"),
		remoteNotFoundPattern.MatchString(msg):
		return rperrors.KindNetwork
	}
	return rperrors.KindUnknown
}
