package thoughts

import (
	"fmt"
	"sort"

	"github.com/arthur-debert/thoughts/pkg/commands/configcmd"
	"github.com/arthur-debert/thoughts/pkg/commands/initialize"
	"github.com/arthur-debert/thoughts/pkg/commands/profile"
	"github.com/arthur-debert/thoughts/pkg/commands/status"
	synccmd "github.com/arthur-debert/thoughts/pkg/commands/sync"
	"github.com/arthur-debert/thoughts/pkg/commands/uninit"
	"github.com/arthur-debert/thoughts/pkg/config"
	"github.com/arthur-debert/thoughts/pkg/reconcile"
	"github.com/arthur-debert/thoughts/pkg/ui"
)

func renderInit(result *initialize.Result) {
	fmt.Println(ui.Success.Render("Thoughts setup complete"))
	fmt.Printf("  Repository slug: %s\n", ui.Path.Render(result.Slug))
	fmt.Printf("  Store: %s\n", ui.Path.Render(result.Effective.ThoughtsRepo))
	if result.Effective.ProfileName != "" {
		fmt.Printf("  Profile: %s\n", ui.Path.Render(result.Effective.ProfileName))
	}

	rec := result.Reconcile
	fmt.Printf("  Overlay: %d symlink(s) created, %d kept, %d mirror file(s) linked\n",
		rec.SymlinksCreated, rec.SymlinksKept, rec.MirrorLinked)

	renderWarnings(result.Warnings)
	if len(result.Orphaned) > 0 && !result.Pruned {
		fmt.Println(ui.Warning.Render("Stale repo mappings (paths no longer exist):"))
		for _, path := range result.Orphaned {
			fmt.Printf("  %s\n", ui.Muted.Render(path))
		}
		fmt.Println(ui.Muted.Render("Re-run with --prune to remove them."))
	}
}

func renderSync(result *synccmd.Result) {
	rec := result.Reconcile
	fmt.Printf("Reconciled overlay for %s: %d linked, %d removed, %d kept\n",
		ui.Path.Render(result.Slug), rec.MirrorLinked, rec.MirrorRemoved, rec.MirrorKept)
	if rec.Degraded() {
		fmt.Println(ui.Warning.Render(fmt.Sprintf(
			"%d mirror file(s) copied instead of hard-linked (cross-device)", rec.MirrorCopied)))
	}
	renderWarnings(result.Warnings)
	fmt.Println(ui.Success.Render("Thoughts synchronized"))
}

func renderStatus(result *status.Result) {
	fmt.Println(ui.Header.Render("Thoughts Repository Status"))
	fmt.Println()

	fmt.Println(ui.Section.Render("Configuration:"))
	fmt.Printf("  Config file: %s\n", ui.Path.Render(result.ConfigPath))
	fmt.Printf("  Store: %s\n", ui.Path.Render(result.Effective.ThoughtsRepo))
	fmt.Printf("  Repos directory: %s\n", ui.Path.Render(result.Effective.ReposDir))
	fmt.Printf("  Global directory: %s\n", ui.Path.Render(result.Effective.GlobalDir))
	fmt.Printf("  User: %s\n", ui.Path.Render(result.Effective.User))
	fmt.Printf("  Mapped repos: %d\n", result.MappingCount)
	fmt.Println()

	fmt.Println(ui.Section.Render("Current Repository:"))
	fmt.Printf("  Path: %s\n", ui.Path.Render(result.WorkingDir))
	if !result.Mapped {
		fmt.Println(ui.Warning.Render("  Not mapped to thoughts; run 'thoughts init'"))
	} else {
		fmt.Printf("  Slug: %s\n", ui.Path.Render(result.Slug))
		if result.Effective.ProfileName != "" {
			fmt.Printf("  Profile: %s\n", ui.Path.Render(result.Effective.ProfileName))
		}
		for _, entry := range result.Entries {
			fmt.Printf("  %s %s\n", renderEntryState(entry.State), entry.Name)
		}
		if result.Mirror.InSync() {
			fmt.Printf("  %s searchable (%d file(s))\n", ui.Success.Render("ok"), result.Mirror.Present)
		} else {
			fmt.Printf("  %s searchable (%d missing, %d stale, %d extra)\n",
				ui.Warning.Render("out of sync"),
				result.Mirror.Missing, result.Mirror.Stale, result.Mirror.Extra)
		}
	}
	fmt.Println()

	fmt.Println(ui.Section.Render("Store:"))
	if !result.Store.Exists {
		fmt.Println(ui.Error.Render(fmt.Sprintf("  Store not found at %s", result.Store.Root)))
		return
	}
	if !result.Store.IsRepo {
		fmt.Println(ui.Muted.Render("  Not a git repository"))
		return
	}
	if result.Store.LastCommit != "" {
		fmt.Printf("  Last commit: %s\n", result.Store.LastCommit)
	} else {
		fmt.Printf("  Last commit: %s\n", ui.Muted.Render("no commits yet"))
	}
	if result.Store.HasRemote {
		fmt.Printf("  Remote: %s\n", ui.Success.Render("origin configured"))
	} else {
		fmt.Printf("  Remote: %s\n", ui.Muted.Render("none configured"))
	}
	if result.Store.Dirty {
		fmt.Println(ui.Warning.Render("  Uncommitted changes; run 'thoughts sync'"))
	} else {
		fmt.Printf("  %s\n", ui.Success.Render("No uncommitted changes"))
	}
}

func renderEntryState(state reconcile.EntryState) string {
	switch state {
	case reconcile.StateOK:
		return ui.Success.Render("ok")
	case reconcile.StateMissing:
		return ui.Warning.Render("missing")
	default:
		return ui.Error.Render("conflict")
	}
}

func renderUninit(result *uninit.Result) {
	if len(result.RemovedEntries) == 0 {
		fmt.Println(ui.Muted.Render("No overlay present, nothing removed."))
		return
	}
	fmt.Println(ui.Success.Render("Thoughts removed from repository"))
	if result.Slug != "" {
		fmt.Println(ui.Muted.Render("Your thoughts content remains safe in:"))
		fmt.Printf("  %s\n", ui.Path.Render(fmt.Sprintf("%s (slug %s)", result.StoreRepo, result.Slug)))
		fmt.Println(ui.Muted.Render("Only the local overlay and configuration entry were removed."))
	}
}

func renderConfig(result *configcmd.Result) {
	fmt.Println(ui.Header.Render("Thoughts Configuration"))
	fmt.Println()
	fmt.Printf("  Config file: %s\n", ui.Path.Render(result.Path))
	if !result.Exists {
		fmt.Println(ui.Muted.Render("  No configuration found"))
		return
	}

	cfg := result.Config
	fmt.Printf("  Store: %s\n", ui.Path.Render(cfg.ThoughtsRepo))
	fmt.Printf("  Repos directory: %s\n", ui.Path.Render(cfg.ReposDir))
	fmt.Printf("  Global directory: %s\n", ui.Path.Render(cfg.GlobalDir))
	fmt.Printf("  User: %s\n", ui.Path.Render(cfg.User))

	fmt.Println()
	fmt.Println(ui.Section.Render("Repository Mappings:"))
	if len(cfg.RepoMappings) == 0 {
		fmt.Println(ui.Muted.Render("  No repositories mapped yet"))
	} else {
		renderMappings(cfg.RepoMappings)
	}

	if len(cfg.Profiles) > 0 {
		fmt.Println()
		fmt.Println(ui.Section.Render("Profiles:"))
		names := make([]string, 0, len(cfg.Profiles))
		for name := range cfg.Profiles {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %s\n", ui.Path.Render(name))
		}
	}

	if len(result.Orphaned) > 0 {
		fmt.Println()
		fmt.Println(ui.Warning.Render("Stale mappings (paths no longer exist):"))
		for _, path := range result.Orphaned {
			fmt.Printf("  %s\n", ui.Muted.Render(path))
		}
	}
}

func renderMappings(mappings map[string]config.RepoMapping) {
	dirs := make([]string, 0, len(mappings))
	for dir := range mappings {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	for _, dir := range dirs {
		mapping := mappings[dir]
		fmt.Printf("  %s\n", ui.Path.Render(dir))
		if mapping.Profile != "" {
			fmt.Printf("    → %s (profile %s)\n", mapping.Repo, mapping.Profile)
		} else {
			fmt.Printf("    → %s\n", mapping.Repo)
		}
	}
}

func renderProfileList(infos []profile.Info) {
	if len(infos) == 0 {
		fmt.Println(ui.Muted.Render("No profiles defined."))
		return
	}
	for _, info := range infos {
		fmt.Printf("%s\n", ui.Path.Render(info.Name))
		if info.Profile.ThoughtsRepo != "" {
			fmt.Printf("  Store: %s\n", info.Profile.ThoughtsRepo)
		}
		if len(info.InUseBy) > 0 {
			fmt.Printf("  In use by %d repo(s)\n", len(info.InUseBy))
		}
	}
}

func renderProfileShow(info profile.Info, eff config.EffectiveConfig) {
	fmt.Println(ui.Header.Render(fmt.Sprintf("Profile: %s", info.Name)))
	fmt.Printf("  Store: %s\n", ui.Path.Render(eff.ThoughtsRepo))
	fmt.Printf("  Repos directory: %s\n", ui.Path.Render(eff.ReposDir))
	fmt.Printf("  Global directory: %s\n", ui.Path.Render(eff.GlobalDir))
	for _, dir := range info.InUseBy {
		fmt.Printf("  Used by: %s\n", ui.Path.Render(dir))
	}
}

func renderWarnings(warnings []string) {
	for _, warning := range warnings {
		fmt.Println(ui.Warning.Render("Warning: " + warning))
	}
}
