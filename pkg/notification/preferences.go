package notification

import "slices"

// Channel is one delivery medium.
type Channel string

const (
	ChannelMail    Channel = "mail"
	ChannelSMS     Channel = "sms"
	ChannelWebhook Channel = "webhook"
	ChannelPush    Channel = "push"
)

// Channels lists all known channels in the order providers are invoked.
func Channels() []Channel {
	return []Channel{ChannelMail, ChannelSMS, ChannelWebhook, ChannelPush}
}

// ChannelPreference is the per-channel slice of a user's delivery
// preferences. Address carries the mailbox or phone number; Targets
// carries webhook URLs or push device tokens, depending on the channel.
type ChannelPreference struct {
	Enabled    bool       `json:"enabled"`
	Verified   bool       `json:"verified,omitempty"` // meaningful for SMS only
	Categories []Category `json:"categories,omitempty"`
	Severities []Severity `json:"severities,omitempty"`
	Address    string     `json:"address,omitempty"`
	Targets    []string   `json:"targets,omitempty"`
}

// Accepts reports whether the preference admits the given category and
// severity. Empty accept sets admit nothing: a channel with no
// configured categories or severities receives no traffic.
func (p ChannelPreference) Accepts(c Category, s Severity) bool {
	return slices.Contains(p.Categories, c) && slices.Contains(p.Severities, s)
}

// Preferences is a user's full delivery configuration, read-only from
// this subsystem's perspective. A channel with no entry is disabled.
type Preferences struct {
	UserID   string                        `json:"user_id"`
	Channels map[Channel]ChannelPreference `json:"channels"`
}

// Channel returns the preference record for a channel and whether one
// is configured at all.
func (p Preferences) Channel(ch Channel) (ChannelPreference, bool) {
	pref, ok := p.Channels[ch]
	return pref, ok
}
