package model

// PermissionAction is the closed set of guarded operations
type PermissionAction string

const (
	ActionEditSession        PermissionAction = "edit_session"
	ActionDeleteSession      PermissionAction = "delete_session"
	ActionManagePlayers      PermissionAction = "manage_players"
	ActionRemovePlayers      PermissionAction = "remove_players"
	ActionAddPlayers         PermissionAction = "add_players"
	ActionUpdatePlayerStatus PermissionAction = "update_player_status"
	ActionGeneratePairings   PermissionAction = "generate_pairings"
	ActionModifyPairings     PermissionAction = "modify_pairings"
)

// PermissionActions lists every guarded action, for exhaustive table checks
var PermissionActions = []PermissionAction{
	ActionEditSession,
	ActionDeleteSession,
	ActionManagePlayers,
	ActionRemovePlayers,
	ActionAddPlayers,
	ActionUpdatePlayerStatus,
	ActionGeneratePairings,
	ActionModifyPairings,
}
