package thoughts

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/thoughts/pkg/commands/configcmd"
	"github.com/arthur-debert/thoughts/pkg/commands/initialize"
	"github.com/arthur-debert/thoughts/pkg/commands/profile"
	"github.com/arthur-debert/thoughts/pkg/commands/status"
	synccmd "github.com/arthur-debert/thoughts/pkg/commands/sync"
	"github.com/arthur-debert/thoughts/pkg/commands/uninit"
	"github.com/arthur-debert/thoughts/pkg/ui"
)

func newInitCmd(flags *rootFlags) *cobra.Command {
	var (
		directory   string
		profileName string
		prune       bool
	)

	cmd := &cobra.Command{
		Use:     "init",
		Short:   MsgInitShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := initialize.Initialize(initialize.Options{
				Directory:  directory,
				Profile:    profileName,
				Force:      flags.force,
				Prune:      prune,
				ConfigPath: flags.configFile,
			})
			if err != nil {
				return err
			}
			renderInit(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&directory, "directory", "d", "", "Store directory name for this repository")
	cmd.Flags().StringVarP(&profileName, "profile", "p", "", "Profile to initialize with")
	cmd.Flags().BoolVar(&prune, "prune", false, "Remove mappings whose directories no longer exist")

	return cmd
}

func newSyncCmd(flags *rootFlags) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:     "sync",
		Short:   MsgSyncShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := synccmd.Sync(synccmd.Options{
				Message:    message,
				ConfigPath: flags.configFile,
			})
			if err != nil {
				return err
			}
			renderSync(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Commit message for sync")

	return cmd
}

func newStatusCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := status.Status(status.Options{
				ConfigPath: flags.configFile,
			})
			if err != nil {
				return err
			}
			renderStatus(result)
			return nil
		},
	}
}

func newUninitCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "uninit",
		Short:   MsgUninitShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := uninit.Uninit(uninit.Options{
				Force:      flags.force,
				ConfigPath: flags.configFile,
			})
			if err != nil {
				return err
			}
			renderUninit(result)
			return nil
		},
	}
}

func newConfigCmd(flags *rootFlags) *cobra.Command {
	var (
		edit   bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := configcmd.Options{ConfigPath: flags.configFile}

			if edit {
				result, err := configcmd.Show(opts)
				if err != nil {
					return err
				}
				return openEditor(result.Path)
			}

			if asJSON {
				data, err := configcmd.RawJSON(opts)
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			result, err := configcmd.Show(opts)
			if err != nil {
				return err
			}
			renderConfig(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&edit, "edit", false, "Open configuration in $EDITOR")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output configuration as JSON")

	return cmd
}

func newProfileCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profile",
		Short:   MsgProfileShort,
		GroupID: "misc",
	}

	var (
		repo      string
		reposDir  string
		globalDir string
	)

	createCmd := &cobra.Command{
		Use:   "create NAME",
		Short: MsgProfileCreateShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := profile.Create(args[0], profile.CreateOptions{
				Options:      profile.Options{ConfigPath: flags.configFile},
				ThoughtsRepo: repo,
				ReposDir:     reposDir,
				GlobalDir:    globalDir,
			})
			if err != nil {
				return err
			}
			if name != args[0] {
				fmt.Println(ui.Warning.Render(fmt.Sprintf("Profile name sanitized to %q", name)))
			}
			fmt.Println(ui.Success.Render(fmt.Sprintf("Profile %q created", name)))
			return nil
		},
	}
	createCmd.Flags().StringVar(&repo, "repo", "", "Thoughts repository path")
	createCmd.Flags().StringVar(&reposDir, "repos-dir", "", "Repository-specific thoughts directory")
	createCmd.Flags().StringVar(&globalDir, "global-dir", "", "Global thoughts directory")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: MsgProfileListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := profile.List(profile.Options{ConfigPath: flags.configFile})
			if err != nil {
				return err
			}
			renderProfileList(infos)
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show NAME",
		Short: MsgProfileShowShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, eff, err := profile.Show(args[0], profile.Options{ConfigPath: flags.configFile})
			if err != nil {
				return err
			}
			renderProfileShow(info, eff)
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete NAME",
		Short: MsgProfileDeleteShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := profile.Delete(args[0], flags.force, profile.Options{ConfigPath: flags.configFile})
			if err != nil {
				return err
			}
			fmt.Println(ui.Success.Render(fmt.Sprintf("Profile %q deleted", args[0])))
			return nil
		},
	}

	cmd.AddCommand(createCmd, listCmd, showCmd, deleteCmd)
	return cmd
}

func openEditor(path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	edit := exec.Command(editor, path)
	edit.Stdin = os.Stdin
	edit.Stdout = os.Stdout
	edit.Stderr = os.Stderr
	return edit.Run()
}
