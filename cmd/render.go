package cmd

import (
	"context"
	"io"
	"os"

	"github.com/foomo/topbar/menu"
	"github.com/foomo/topbar/pkg/handler"
	"github.com/foomo/topbar/pkg/walker"
	"github.com/foomo/topbar/requests"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func NewRenderCommand() *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:     "render <file>",
		Short:   "Render the menu of a location from a menu document",
		Example: "  topbar render menus.json --location primary --uri /about --groups manage_options",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(err, "failed to read menu document")
			}
			return renderDocument(cmd.Context(), zap.L(), cmd.OutOrStdout(), data, v)
		},
	}

	flags := cmd.Flags()
	addLocationFlag(flags, v)
	addURIFlag(flags, v)
	addMaxDepthFlag(flags, v)
	addGroupsFlag(flags, v)
	addHomeURLFlag(flags, v)
	addMenuEditorURLFlag(flags, v)

	return cmd
}

func renderDocument(ctx context.Context, l *zap.Logger, out io.Writer, data []byte, v *viper.Viper) error {
	doc := menu.NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return errors.Wrap(err, "failed to deserialize menu document")
	}

	var (
		items    []*menu.Item
		location = locationFlag(v)
		groups   = groupsFlag(v)
	)
	if node, ok := doc.Menus[location]; ok && node != nil {
		items = node.Items(groups)
		menu.MarkCurrent(items, uriFlag(v))
	} else {
		l.Warn("no menu assigned to location", zap.String("location", location))
	}

	w := walker.New(l,
		walker.WithResolver(doc),
		walker.WithHomeURL(homeURLFlag(v)),
		walker.WithMenuEditorURL(menuEditorURLFlag(v)),
	)
	args := menu.NewArgs()
	args.MaxDepth = maxDepthFlag(v)

	canManage := handler.GroupAuthorizer(menu.CapabilityManageOptions)(&requests.Env{Groups: groups})
	if err := w.Component(items, args, canManage).Render(ctx, out); err != nil {
		return errors.Wrap(err, "failed to render menu")
	}
	_, err := io.WriteString(out, "\n")
	return err
}
