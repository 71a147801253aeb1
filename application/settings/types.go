package settings

import (
	"fmt"

	"helpdesk/common"
)

// UpdatePayload is a partial settings patch. Nil fields are untouched;
// only the supplied fields are merged into the stored record.
type UpdatePayload struct {
	TicketCategoryID *string `json:"ticket_category_id"`
	LogChannelID     *string `json:"log_channel_id"`
	SupportRoleID    *string `json:"support_role_id"`
	AdminRoleID      *string `json:"admin_role_id"`
	WelcomeMessage   *string `json:"welcome_message"`
	CloseMessage     *string `json:"close_message"`
	MaxOpenTickets   *int    `json:"max_open_tickets"`
}

// IsEmpty reports whether the patch sets no fields at all.
func (p *UpdatePayload) IsEmpty() bool {
	return p.TicketCategoryID == nil &&
		p.LogChannelID == nil &&
		p.SupportRoleID == nil &&
		p.AdminRoleID == nil &&
		p.WelcomeMessage == nil &&
		p.CloseMessage == nil &&
		p.MaxOpenTickets == nil
}

// Validate rejects out-of-range values before anything is persisted.
// The collaborator layer validates first; the store rejects defensively.
func (p *UpdatePayload) Validate() error {
	if p.MaxOpenTickets != nil {
		if *p.MaxOpenTickets < common.MinMaxOpenTickets || *p.MaxOpenTickets > common.MaxMaxOpenTickets {
			return common.NewValidationError(
				"max_open_tickets",
				fmt.Sprintf("must be between %d and %d", common.MinMaxOpenTickets, common.MaxMaxOpenTickets),
			)
		}
	}
	return nil
}

// columns maps the set fields onto their column names for a partial UPDATE.
func (p *UpdatePayload) columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if p.TicketCategoryID != nil {
		cols["ticket_category_id"] = *p.TicketCategoryID
	}
	if p.LogChannelID != nil {
		cols["log_channel_id"] = *p.LogChannelID
	}
	if p.SupportRoleID != nil {
		cols["support_role_id"] = *p.SupportRoleID
	}
	if p.AdminRoleID != nil {
		cols["admin_role_id"] = *p.AdminRoleID
	}
	if p.WelcomeMessage != nil {
		cols["welcome_message"] = *p.WelcomeMessage
	}
	if p.CloseMessage != nil {
		cols["close_message"] = *p.CloseMessage
	}
	if p.MaxOpenTickets != nil {
		cols["max_open_tickets"] = *p.MaxOpenTickets
	}
	return cols
}
