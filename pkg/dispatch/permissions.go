package dispatch

// Rules are a command's optional authorization requirements, evaluated in a
// fixed order by PermissionEvaluator. A nil Rules means always allowed.
type Rules struct {
	OwnerOnly bool
	GuildOnly bool
	DMOnly    bool

	Roles []string // any-of: the member must hold at least one

	UserPermissions int64 // all-of capability bitmask for the member
	BotPermissions  int64 // all-of capability bitmask for the bot's member
}

// DenyCode identifies which pipeline stage rejected an invocation.
type DenyCode int

const (
	DenyOwnerOnly DenyCode = iota
	DenyGuildOnly
	DenyDMOnly
	DenyMissingRole
	DenyUserPermissions
	DenyBotPermissions
)

var denyCodeNames = map[DenyCode]string{
	DenyOwnerOnly:       "owner-only",
	DenyGuildOnly:       "guild-only",
	DenyDMOnly:          "dm-only",
	DenyMissingRole:     "missing-role",
	DenyUserPermissions: "user-permissions",
	DenyBotPermissions:  "bot-permissions",
}

func (c DenyCode) String() string {
	if name, ok := denyCodeNames[c]; ok {
		return name
	}
	return "unknown"
}

// Denial is the verdict of the first failing stage. For the two permission
// stages, Missing carries the absent capability bits so the adapter can name
// them to the user.
type Denial struct {
	Code    DenyCode
	Missing int64
}

// PermissionEvaluator runs the ordered permission pipeline against
// invocations. The owner set is fixed at construction.
type PermissionEvaluator struct {
	owners map[string]struct{}
}

// NewPermissionEvaluator returns an evaluator recognizing the given user IDs
// as owners.
func NewPermissionEvaluator(ownerIDs []string) *PermissionEvaluator {
	owners := make(map[string]struct{}, len(ownerIDs))
	for _, id := range ownerIDs {
		if id != "" {
			owners[id] = struct{}{}
		}
	}
	return &PermissionEvaluator{owners: owners}
}

// IsOwner reports whether a user ID is in the configured owner set.
func (e *PermissionEvaluator) IsOwner(userID string) bool {
	_, ok := e.owners[userID]
	return ok
}

// Evaluate applies the rules in a fixed, short-circuiting order: owner,
// guild/DM scope, roles, user permissions, bot permissions. The first
// failing stage's denial is returned and later stages are never evaluated;
// callers can rely on "not the owner" never being reported as a role or
// permission failure. nil means allowed.
func (e *PermissionEvaluator) Evaluate(rules *Rules, inv *Invocation) *Denial {
	if rules == nil {
		return nil
	}

	if rules.OwnerOnly && !e.IsOwner(inv.AuthorID) {
		return &Denial{Code: DenyOwnerOnly}
	}

	inGuild := inv.GuildID != ""
	if rules.GuildOnly && !inGuild {
		return &Denial{Code: DenyGuildOnly}
	}
	if rules.DMOnly && inGuild {
		return &Denial{Code: DenyDMOnly}
	}

	// The remaining stages need a member view, which only exists in guilds.
	if !inGuild {
		return nil
	}

	if len(rules.Roles) > 0 && !holdsAnyRole(inv.Member, rules.Roles) {
		return &Denial{Code: DenyMissingRole}
	}

	if rules.UserPermissions != 0 {
		var have int64
		if inv.Member != nil {
			have = inv.Member.Permissions
		}
		if missing := rules.UserPermissions &^ have; missing != 0 {
			return &Denial{Code: DenyUserPermissions, Missing: missing}
		}
	}

	if rules.BotPermissions != 0 {
		var have int64
		if inv.BotMember != nil {
			have = inv.BotMember.Permissions
		}
		if missing := rules.BotPermissions &^ have; missing != 0 {
			return &Denial{Code: DenyBotPermissions, Missing: missing}
		}
	}

	return nil
}

func holdsAnyRole(m *Member, wanted []string) bool {
	if m == nil {
		return false
	}
	for _, held := range m.Roles {
		for _, want := range wanted {
			if held == want {
				return true
			}
		}
	}
	return false
}
