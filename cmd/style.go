package cmd

import (
	"github.com/foomo/topbar/pkg/style"
	"github.com/spf13/cobra"
)

func NewStyleCommand() *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:   "style",
		Short: "Print the admin bar style block for the configured mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := style.ParseMode(styleModeFlag(v))
			if err != nil {
				return err
			}
			inj := style.New(mode, style.WithHeight(styleHeightFlag(v)))
			return inj.Component(style.Env{
				Admin:           adminFlag(v),
				AdminBarShowing: adminBarFlag(v),
			}).Render(cmd.Context(), cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	addStyleModeFlag(flags, v)
	addStyleHeightFlag(flags, v)
	addAdminFlag(flags, v)
	addAdminBarFlag(flags, v)

	return cmd
}
