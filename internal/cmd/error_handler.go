package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rapidpro/rapidpro-cli/internal/api"
	"github.com/rapidpro/rapidpro-cli/internal/config"
	"github.com/rapidpro/rapidpro-cli/internal/resolve"
)

// HandleError renders err with suggestions for a terminal user.
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder
	var apiErr *api.Error
	var ambiguous *resolve.AmbiguousError

	switch {
	case errors.Is(err, config.ErrNotConfigured):
		msg.WriteString("Not logged in.\n\n")
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Run: rapidpro auth login --host <host>\n")
		msg.WriteString("  - Or set RAPIDPRO_HOST and RAPIDPRO_TOKEN\n")

	case errors.As(err, &ambiguous):
		fmt.Fprintf(&msg, "Error: %s\n\n", ambiguous.Error())
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Pass the UUID instead of the name\n")

	case errors.As(err, &apiErr):
		writeAPIError(&msg, apiErr)

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())
	}

	return msg.String()
}

func writeAPIError(msg *strings.Builder, err *api.Error) {
	switch err.Kind {
	case api.KindBadRequest:
		msg.WriteString("Request rejected by the server:\n")
		for _, m := range err.Messages() {
			fmt.Fprintf(msg, "  - %s\n", m)
		}
		msg.WriteString("\nSuggestions:\n")
		msg.WriteString("  - Check the flag values\n")
		msg.WriteString("  - Use --debug to see the full request\n")

	case api.KindToken:
		fmt.Fprintf(msg, "Error: %s\n\n", err.Error())
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Run: rapidpro auth login\n")
		msg.WriteString("  - Check the token belongs to this host\n")

	case api.KindRateExceeded:
		fmt.Fprintf(msg, "Error: %s\n\n", err.Error())
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Pass --retry to wait for the rate limit to reset\n")

	case api.KindConnection:
		fmt.Fprintf(msg, "Error: %s\n\n", err.Error())
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Check the host: rapidpro auth status\n")
		msg.WriteString("  - Check your network connection\n")

	default:
		if err.StatusCode != 0 {
			fmt.Fprintf(msg, "API error (HTTP %d): %s\n", err.StatusCode, err.Error())
		} else {
			fmt.Fprintf(msg, "Error: %s\n", err.Error())
		}
		if s := api.ErrorCodeFromKind(err.Kind, err.StatusCode).Suggestion(); s != "" {
			fmt.Fprintf(msg, "\nSuggestions:\n  - %s\n", s)
		}
	}
}
