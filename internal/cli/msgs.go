package cli

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort = "A profile-scoped package and dotfiles manager"
	MsgRootLong = `zshrcman tracks which packages each of your shell profiles depends
on, projects per-profile environment variables and PATH entries, and
keeps package groups, aliases and dotfiles in a git-synced repository.`

	MsgProfileShort    = "Manage profiles"
	MsgCreateShort     = "Create a new profile"
	MsgDeleteShort     = "Delete a profile"
	MsgSwitchShort     = "Switch to another profile"
	MsgActivateShort   = "Activate a profile without deactivating first"
	MsgDeactivateShort = "Deactivate the current profile"
	MsgListShort       = "List all profiles"
	MsgCurrentShort    = "Show the active profile"

	MsgInstallShort  = "Record package installations for the active profile"
	MsgRemoveShort   = "Remove packages using a removal strategy"
	MsgPackagesShort = "List tracked packages"
	MsgInfoShort     = "Show a package's ledger record"

	MsgEnvShort       = "Manage the projected shell environment"
	MsgEnvRenderShort = "Render a profile's environment script"
	MsgEnvWriteShort  = "Write a profile's environment script to disk"

	MsgGroupShort          = "Manage package groups"
	MsgGroupListShort      = "List package groups"
	MsgGroupCreateShort    = "Create a package group"
	MsgGroupEnableShort    = "Enable a package group"
	MsgGroupDisableShort   = "Disable a package group"
	MsgGroupAddShort       = "Add a package to a group"
	MsgGroupRemoveShort    = "Remove a package from a group"
	MsgGroupInstallShort   = "Install all enabled groups"
	MsgGroupUninstallShort = "Uninstall all enabled groups"

	MsgDeviceShort        = "Manage device-scoped groups"
	MsgDeviceListShort    = "List groups for this device"
	MsgDeviceEnableShort  = "Enable a group for this device"
	MsgDeviceDisableShort = "Disable a group for this device"

	MsgAliasShort          = "Manage alias groups"
	MsgAliasListShort      = "List alias groups"
	MsgAliasCreateShort    = "Create an alias group"
	MsgAliasSetActiveShort = "Choose which alias groups are active"

	MsgSyncShort    = "Sync the dotfiles repository"
	MsgInitShort    = "Initialize zshrcman on this device"
	MsgStatusShort  = "Show an overview of the current setup"
	MsgStateShort   = "Inspect the persisted state"
	MsgExportShort  = "Export the state snapshot"
	MsgVersionShort = "Print version information"
	MsgTopicsShort  = "Display available documentation topics"
	MsgTopicsLong   = "Display a list of all available help topics that provide additional documentation beyond command help."

	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgNoProfiles         = "No profiles created yet."
	MsgNoActiveProfile    = "No active profile."
	MsgNoPackages         = "No packages tracked."
	MsgNoGroups           = "No groups defined."
	MsgNoAliasGroups      = "No alias groups defined."
	MsgCurrentFormat      = "Current profile: %s\n"
	MsgProfileCreated     = "Created profile '%s'"
	MsgProfileDeleted     = "Deleted profile '%s'"
	MsgSwitched           = "Switched from '%s' to '%s'"
	MsgSwitchedFirst      = "Switched to '%s'"
	MsgSwitchResumed      = "Resumed switch to '%s'"
	MsgActivated          = "Activated profile '%s'"
	MsgDeactivated        = "Deactivated profile '%s'"
	MsgInstallRecorded    = "Recorded '%s' for profile '%s'"
	MsgInstallActivated   = "'%s' already installed; now active for profile '%s'"
	MsgInstallNoChange    = "'%s' already active for profile '%s'"
	MsgRemoveUninstalled  = "Uninstalled '%s'"
	MsgRemoveDeactivated  = "Deactivated '%s' (still used by %d profile(s): %s)"
	MsgRemoveMarked       = "Marked '%s' unused"
	MsgRemoveNone         = "Nothing to do for '%s': no active profile"
	MsgGroupCreated       = "Created group '%s' (installer: %s)"
	MsgGroupEnabled       = "Enabled group '%s'"
	MsgGroupDisabled      = "Disabled group '%s'"
	MsgGroupPkgAdded      = "Added '%s' to group '%s'"
	MsgGroupPkgRemoved    = "Removed '%s' from group '%s'"
	MsgGroupInstalled     = "Installed group '%s' via %s (%d package(s))"
	MsgGroupInstallFailed = "Group '%s' failed: %v"
	MsgGroupUninstalled   = "Uninstalled group '%s'"
	MsgNoGroupOutcomes    = "No enabled groups to process."
	MsgDeviceEnabled      = "Enabled group '%s' for device '%s'"
	MsgDeviceDisabled     = "Disabled group '%s' for device '%s'"
	MsgAliasCreated       = "Created alias group '%s' with %d alias(es)"
	MsgAliasActiveSet     = "Active alias groups: %s"
	MsgEnvWritten         = "Wrote environment script to %s"
	MsgSyncDone           = "Synced branch '%s'"
	MsgSyncCommitted      = "Committed local changes"
	MsgSyncPushed         = "Pushed to origin"
	MsgInitDone           = "Initialized zshrcman for device '%s' on branch '%s'"

	// Error messages
	MsgErrNoCommand = "no command specified"

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagColor     = "Color output: auto, always or never"
	MsgFlagParent    = "Parent profile to inherit from"
	MsgFlagResume    = "Resume an interrupted switch"
	MsgFlagScope     = "Install scope: system, global, profile, local or device"
	MsgFlagStrategy  = "Removal strategy: deactivate, remove-from-profile, smart, force or mark-unused"
	MsgFlagProfile   = "Profile to operate on instead of the active one"
	MsgFlagShell     = "Target shell: zsh, bash, fish, powershell or cmd"
	MsgFlagDevice    = "Operate on this device's groups instead of the shared ones"
	MsgFlagInstaller = "Installer type: brew, npm, pnpm or a config type (inferred from the name when empty)"
	MsgFlagOnly      = "Restrict to the named groups"
	MsgFlagMessage   = "Commit message for the sync commit"
	MsgFlagRemote    = "Git remote URL for the dotfiles repository"
	MsgFlagInitDev   = "Device name (defaults to the hostname)"
	MsgFlagBranch    = "Sync branch (defaults to device/<name>)"
	MsgFlagFormat    = "Export format: toml or yaml"
)
