package dto

// OutboundEmailMessage is the payload carried on the outbound email topic.
type OutboundEmailMessage struct {
	Kind     string `json:"kind"` // "approval" | "denial" | "password_reset"
	To       string `json:"to"`
	FullName string `json:"full_name,omitempty"`
	Token    string `json:"token,omitempty"`
	Reason   string `json:"reason,omitempty"`
}
