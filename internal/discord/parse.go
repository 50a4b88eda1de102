package discord

import "strings"

// SplitCommand splits message content into a command name and raw argument
// tokens when the content starts with the given prefix. ok is false for
// non-command messages, including a bare prefix with nothing after it.
func SplitCommand(content, prefix string) (name string, tokens []string, ok bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}
	fields := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(fields) == 0 {
		return "", nil, false
	}
	return fields[0], fields[1:], true
}

// prefixFor returns the guild's stored prefix, falling back to the
// configured default for DMs, unset guilds and storage errors.
func (b *Bot) prefixFor(guildID string) string {
	if guildID == "" {
		return b.cfg.Prefix
	}
	p, err := b.store.Prefix(guildID)
	if err != nil || p == "" {
		return b.cfg.Prefix
	}
	return p
}
