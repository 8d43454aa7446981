package common

import (
	"github.com/bwmarrin/discordgo"
)

// IsUserAdmin reports whether the member invoking an interaction carries the
// Administrator permission in its guild
func IsUserAdmin(i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		return false
	}
	return i.Member.Permissions&discordgo.PermissionAdministrator != 0
}
