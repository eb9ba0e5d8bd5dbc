package notification

// ApplicableChannels decides which channels a notification should be
// routed to under the given preferences. It is pure and performs no I/O.
//
// A channel is applicable iff it is enabled, verified where the channel
// requires verification, and both the notification's category and
// severity appear in the channel's accept sets. Channels without a
// preference record are treated as disabled.
//
// An already-expired notification is never routed: the result is empty
// regardless of preferences.
func ApplicableChannels(n Notification, prefs Preferences) []Channel {
	if n.IsExpired() {
		return nil
	}

	var applicable []Channel
	for _, ch := range Channels() {
		pref, ok := prefs.Channel(ch)
		if !ok || !pref.Enabled {
			continue
		}
		if requiresVerification(ch) && !pref.Verified {
			continue
		}
		if !pref.Accepts(n.Category, n.Severity) {
			continue
		}
		applicable = append(applicable, ch)
	}
	return applicable
}

// requiresVerification reports whether sends on the channel are gated on
// a verified delivery address. Only SMS carries a verification flow:
// unverified phone numbers never receive messages.
func requiresVerification(ch Channel) bool {
	return ch == ChannelSMS
}
