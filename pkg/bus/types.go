package bus

// Announcement is an outbound message produced by a background service
// (daily scheduler) and delivered by the gateway.
type Announcement struct {
	ChannelID string `json:"channel_id"`
	Content   string `json:"content"`
}
