package ui

import "github.com/idilsaglam/grimoire/internal/model"

// Console prints notifications as OK/Fail lines.
type Console struct{}

func (Console) Notify(title, description string, severity model.Severity) {
	msg := title
	if description != "" {
		msg += ": " + description
	}
	switch severity {
	case model.SeverityError:
		Fail(msg)
	case model.SeveritySuccess:
		OK(msg)
	default:
		Info(msg)
	}
}
