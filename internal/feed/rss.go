package feed

import (
	"encoding/xml"
	"time"
)

type rssFeed struct {
	XMLName  xml.Name   `xml:"rss"`
	Version  string     `xml:"version,attr"`
	ITunesNS string     `xml:"xmlns:itunes,attr"`
	Channel  rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Description string    `xml:"description"`
	Link        string    `xml:"link"`
	Generator   string    `xml:"generator"`
	Image       *rssImage `xml:"itunes:image,omitempty"`
	Items       []rssItem `xml:"item"`
}

type rssImage struct {
	Href string `xml:"href,attr"`
}

type rssItem struct {
	Title          string       `xml:"title"`
	Enclosure      rssEnclosure `xml:"enclosure"`
	GUID           string       `xml:"guid"`
	PubDate        string       `xml:"pubDate"`
	ITunesDuration string       `xml:"itunes:duration,omitempty"`
	ITunesImage    *rssImage    `xml:"itunes:image,omitempty"`
}

type rssEnclosure struct {
	URL    string `xml:"url,attr"`
	Type   string `xml:"type,attr"`
	Length int64  `xml:"length,attr"`
}

// RenderFeed renders the channel and its sorted episodes as RSS 2.0. The
// channel image is the first sorted episode's cover, when it has one. The
// output is a pure function of the filesystem state, so repeated calls
// without changes are byte-identical.
func (c *Channel) RenderFeed() ([]byte, error) {
	episodes := c.Sorted()

	rss := rssFeed{
		Version:  "2.0",
		ITunesNS: "http://www.itunes.com/dtds/podcast-1.0.dtd",
		Channel: rssChannel{
			Title:       c.title,
			Description: c.description,
			Link:        c.link,
			Generator:   "podshelf",
		},
	}

	if len(episodes) > 0 {
		if cover := episodes[0].CoverImageURL(); cover != "" {
			rss.Channel.Image = &rssImage{Href: cover}
		}
	}

	for _, episode := range episodes {
		item := rssItem{
			Title:   episode.Title(),
			GUID:    episode.URL(),
			PubDate: episode.Date().UTC().Format(time.RFC1123Z),
			Enclosure: rssEnclosure{
				URL:    episode.URL(),
				Type:   episode.MimeType(),
				Length: episode.Length(),
			},
		}
		if _, ok := episode.Duration(); ok {
			item.ITunesDuration = episode.DurationFormatted()
		}
		if cover := episode.CoverImageURL(); cover != "" {
			item.ITunesImage = &rssImage{Href: cover}
		}
		rss.Channel.Items = append(rss.Channel.Items, item)
	}

	output, err := xml.MarshalIndent(rss, "", "  ")
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), output...), nil
}
