package types

import "strings"

// Action is the closed enumeration of auditable event kinds. Extending the log
// vocabulary means adding a constant here plus its rows in the severity,
// critical, and description tables below.
type Action string

const (
	ActionAuthLogin          Action = "auth.login"
	ActionAuthLogout         Action = "auth.logout"
	ActionAuthPasswordChange Action = "auth.password_change"
	ActionAuthMFAEnable      Action = "auth.mfa_enable"
	ActionAuthMFADisable     Action = "auth.mfa_disable"

	ActionUserCreate     Action = "user.create"
	ActionUserUpdate     Action = "user.update"
	ActionUserDelete     Action = "user.delete"
	ActionUserRoleChange Action = "user.role_change"

	ActionProjectCreate Action = "project.create"
	ActionProjectUpdate Action = "project.update"
	ActionProjectDelete Action = "project.delete"

	ActionQuoteCreate Action = "quote.create"
	ActionQuoteUpdate Action = "quote.update"
	ActionQuoteAccept Action = "quote.accept"
	ActionQuoteDelete Action = "quote.delete"

	ActionFileUpload   Action = "file.upload"
	ActionFileDownload Action = "file.download"
	ActionFileDelete   Action = "file.delete"

	ActionConsultationSchedule Action = "consultation.schedule"
	ActionConsultationCancel   Action = "consultation.cancel"

	ActionMessageSend      Action = "message.send"
	ActionNotificationSend Action = "notification.send"

	ActionAPICall     Action = "api.call"
	ActionDataExport  Action = "data.export"
	ActionSystemError Action = "system.error"
)

// defaultSeverity maps each action to the severity applied when the caller
// does not override it. Actions absent from the table default to info.
var defaultSeverity = map[Action]Severity{
	ActionAuthMFADisable: SeverityWarning,
	ActionUserDelete:     SeverityWarning,
	ActionUserRoleChange: SeverityWarning,
	ActionProjectDelete:  SeverityWarning,
	ActionQuoteDelete:    SeverityWarning,
	ActionFileDelete:     SeverityWarning,
	ActionSystemError:    SeverityError,
}

// criticalActions forces the immediate escalation path regardless of severity.
var criticalActions = map[Action]struct{}{
	ActionUserRoleChange: {},
	ActionUserDelete:     {},
	ActionProjectDelete:  {},
	ActionQuoteDelete:    {},
	ActionAuthMFADisable: {},
}

// actionDescriptions backs DescriptionFor. Summaries stay short so they read
// well in admin feeds and CSV exports.
var actionDescriptions = map[Action]string{
	ActionAuthLogin:            "signed in",
	ActionAuthLogout:           "signed out",
	ActionAuthPasswordChange:   "changed their password",
	ActionAuthMFAEnable:        "enabled multi-factor authentication",
	ActionAuthMFADisable:       "disabled multi-factor authentication",
	ActionUserCreate:           "created user",
	ActionUserUpdate:           "updated user",
	ActionUserDelete:           "deleted user",
	ActionUserRoleChange:       "changed role for",
	ActionProjectCreate:        "created project",
	ActionProjectUpdate:        "updated project",
	ActionProjectDelete:        "deleted project",
	ActionQuoteCreate:          "created quote",
	ActionQuoteUpdate:          "updated quote",
	ActionQuoteAccept:          "accepted quote",
	ActionQuoteDelete:          "deleted quote",
	ActionFileUpload:           "uploaded file",
	ActionFileDownload:         "downloaded file",
	ActionFileDelete:           "deleted file",
	ActionConsultationSchedule: "scheduled consultation",
	ActionConsultationCancel:   "cancelled consultation",
	ActionMessageSend:          "sent message",
	ActionNotificationSend:     "sent notification",
	ActionAPICall:              "called API endpoint",
	ActionDataExport:           "exported data",
	ActionSystemError:          "encountered a system error",
}

// Known reports whether the action is part of the closed enumeration.
func (a Action) Known() bool {
	_, ok := actionDescriptions[a]
	return ok
}

// DefaultSeverity returns the severity band applied when no override is set.
func (a Action) DefaultSeverity() Severity {
	if sev, ok := defaultSeverity[a]; ok {
		return sev
	}
	return SeverityInfo
}

// Critical reports whether entries for this action must take the immediate
// write path in addition to normal batching.
func (a Action) Critical() bool {
	_, ok := criticalActions[a]
	return ok
}

// DescriptionFor derives a human-readable summary from the action and the
// affected resource name, when one is known.
func DescriptionFor(action Action, resourceName string) string {
	desc, ok := actionDescriptions[action]
	if !ok {
		return string(action)
	}
	resourceName = strings.TrimSpace(resourceName)
	if resourceName == "" {
		return desc
	}
	return desc + " " + resourceName
}
