package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"podshelf/internal/feed"
	"podshelf/internal/web"
)

func newGenerateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "generate DIRECTORY",
		Short: "Print the RSS feed(s) to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			out := cmd.OutOrStdout()

			root, err := resolveRoot(args[0])
			if err != nil {
				return err
			}
			meta, err := opts.resolveFeedMetadata()
			if err != nil {
				return err
			}

			if opts.folderFeeds {
				index := feed.NewFolderIndex(opts.folderIndexConfig(root, meta), logger)
				folders := index.Folders()
				if len(folders) == 0 {
					fmt.Fprintln(out, "No subfolders with audio files found.")
					return nil
				}
				for _, folder := range folders {
					fmt.Fprintf(out, "# Feed for folder: %s\n", folder)
					fmt.Fprintf(out, "# URL: /feed/%s\n", url.PathEscape(folder))
					data, err := index.Channel(folder).RenderFeed()
					if err != nil {
						return err
					}
					if _, err := out.Write(append(data, '\n', '\n')); err != nil {
						return err
					}
				}
				return nil
			}

			channel := feed.NewChannel(opts.channelConfig(root, meta), logger)
			data, err := channel.RenderFeed()
			if err != nil {
				return err
			}
			_, err = out.Write(append(data, '\n'))
			return err
		},
	}
}

func newGenerateHTMLCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "generate-html DIRECTORY",
		Aliases: []string{"generate_html"},
		Short:   "Print the browsable HTML page to stdout",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			out := cmd.OutOrStdout()

			root, err := resolveRoot(args[0])
			if err != nil {
				return err
			}
			meta, err := opts.resolveFeedMetadata()
			if err != nil {
				return err
			}
			renderer, err := web.NewRenderer()
			if err != nil {
				return err
			}

			var data []byte
			if opts.folderFeeds {
				index := feed.NewFolderIndex(opts.folderIndexConfig(root, meta), logger)
				data, err = index.RenderIndex(renderer)
			} else {
				channel := feed.NewChannel(opts.channelConfig(root, meta), logger)
				data, err = channel.RenderPage(renderer, "")
			}
			if err != nil {
				return err
			}
			_, err = out.Write(append(data, '\n'))
			return err
		},
	}
}
