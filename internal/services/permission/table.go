package permission

import "github.com/bujinwang/BadmintonGroup-sub005/internal/model"

// permissionTable is the immutable Role x Action matrix. Every guarded action
// has an explicit entry for both roles; there is no runtime key construction.
// Note update_player_status is organizer-controlled here: the self-service
// path is granted by RequireOrganizerOrSelf, not by this table.
var permissionTable = map[model.Role]map[model.PermissionAction]bool{
	model.RoleOrganizer: {
		model.ActionEditSession:        true,
		model.ActionDeleteSession:      true,
		model.ActionManagePlayers:      true,
		model.ActionRemovePlayers:      true,
		model.ActionAddPlayers:         true,
		model.ActionUpdatePlayerStatus: true,
		model.ActionGeneratePairings:   true,
		model.ActionModifyPairings:     true,
	},
	model.RolePlayer: {
		model.ActionEditSession:        false,
		model.ActionDeleteSession:      false,
		model.ActionManagePlayers:      false,
		model.ActionRemovePlayers:      false,
		model.ActionAddPlayers:         true,
		model.ActionUpdatePlayerStatus: false,
		model.ActionGeneratePairings:   false,
		model.ActionModifyPairings:     false,
	},
}

// Allows reports whether the permission table grants the action to the role
func Allows(role model.Role, action model.PermissionAction) bool {
	actions, ok := permissionTable[role]
	if !ok {
		return false
	}
	return actions[action]
}
