package services

import (
	"errors"

	"github.com/dmitrijs2005/artefacto/internal/client/client"
)

// UserMessage turns an error from this package or the transport into text
// fit for the user. Connectivity problems and rejected credentials read
// differently; the server's own explanation is preferred when it sent one.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}

	msg := client.MessageOf(err)

	switch {
	case errors.Is(err, client.ErrUnavailable):
		if msg != "" {
			return msg
		}
		return "Cannot connect to the server. Check your internet connection and try again."
	case errors.Is(err, client.ErrInvalidCredentials):
		if msg != "" {
			return msg
		}
		return "Incorrect email or password."
	case errors.Is(err, client.ErrMalformedResponse):
		return "The server is not responding correctly. Please try again later."
	case errors.Is(err, client.ErrUnauthorized):
		return "Your session has ended. Please log in again."
	case errors.Is(err, client.ErrServerRejected):
		if msg != "" {
			return msg
		}
		return "The server rejected the request. Check your input and try again."
	case errors.Is(err, ErrNotSignedIn):
		return "Please log in first."
	case errors.Is(err, ErrNothingToUpdate):
		return "Nothing to update."
	case msg != "":
		return msg
	}
	return "Something went wrong. Please try again."
}
