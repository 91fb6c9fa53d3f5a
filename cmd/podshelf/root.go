package main

import (
	"errors"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"podshelf/internal/config"
	"podshelf/internal/feed"
)

type options struct {
	host              string
	port              string
	publicURL         string
	title             string
	link              string
	feedConfig        string
	titleFromID3      bool
	titleFromFilename bool
	forceOrderByName  bool
	folderFeeds       bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "podshelf",
		Short:         "Podcast feed generator and server for local audio files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.titleFromID3 && opts.titleFromFilename {
				return errors.New("--title-from-id3 and --title-from-filename are mutually exclusive")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.host, "host", config.DefaultHost, "listen hostname or IP address")
	pf.StringVar(&opts.port, "port", config.DefaultPort, "listen TCP port number")
	pf.StringVar(&opts.publicURL, "public-url", "", "public-facing URL for links in the feed (useful behind a reverse proxy)")
	pf.StringVar(&opts.title, "title", "", "optional feed title")
	pf.StringVar(&opts.link, "link", "", "optional feed link")
	pf.StringVar(&opts.feedConfig, "feed-config", "", "optional YAML file with feed metadata")
	pf.BoolVar(&opts.titleFromID3, "title-from-id3", false, "prefer the tag title for episode titles, falling back to the filename")
	pf.BoolVar(&opts.titleFromFilename, "title-from-filename", false, "use only the filename (without extension) for episode titles")
	pf.BoolVar(&opts.forceOrderByName, "force-order-by-name", false, "order episodes by filename via artificial timestamps instead of dates")
	pf.BoolVar(&opts.folderFeeds, "folder-feeds", false, "one RSS feed per immediate subfolder instead of a single combined feed")

	rootCmd.AddCommand(newGenerateCommand(opts))
	rootCmd.AddCommand(newGenerateHTMLCommand(opts))
	rootCmd.AddCommand(newServeCommand(opts))

	return rootCmd
}

func (o *options) titleMode() feed.TitleMode {
	switch {
	case o.titleFromID3:
		return feed.TitleID3Preferred
	case o.titleFromFilename:
		return feed.TitleFilenameOnly
	default:
		return feed.TitleDefault
	}
}

func (o *options) rootURL() string {
	if o.publicURL != "" {
		return o.publicURL
	}
	return "http://" + o.host + ":" + o.port
}

// resolveFeedMetadata merges flag overrides on top of the config/env layers.
func (o *options) resolveFeedMetadata() (config.FeedMetadata, error) {
	meta, err := config.ResolveFeedMetadata(o.feedConfig)
	if err != nil {
		return config.FeedMetadata{}, err
	}
	if o.title != "" {
		meta.Title = o.title
	}
	if o.link != "" {
		meta.Link = o.link
	}
	return meta, nil
}

func (o *options) channelConfig(root string, meta config.FeedMetadata) feed.ChannelConfig {
	return feed.ChannelConfig{
		RootDir:     root,
		RootURL:     o.rootURL(),
		Title:       meta.Title,
		Link:        meta.Link,
		Description: meta.Description,
		TitleMode:   o.titleMode(),
		OrderByName: o.forceOrderByName,
	}
}

func (o *options) folderIndexConfig(root string, meta config.FeedMetadata) feed.FolderIndexConfig {
	return feed.FolderIndexConfig{
		RootDir:     root,
		RootURL:     o.rootURL(),
		Title:       meta.Title,
		Link:        meta.Link,
		TitleMode:   o.titleMode(),
		OrderByName: o.forceOrderByName,
	}
}

func newLogger() *log.Logger {
	return log.New(os.Stderr, "podshelf ", log.LstdFlags|log.Lmsgprefix)
}

func resolveRoot(arg string) (string, error) {
	root, err := filepath.Abs(arg)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(root)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", errors.New(root + " is not a directory")
	}
	return root, nil
}
