package jellyfin

import (
	"encoding/xml"
	"strconv"
	"strings"
	"time"
)

// container models a MediaContainer response document. Every attribute is
// decoded as a string and cast afterwards; servers omit attributes freely and
// occasionally send empty values where numbers are expected.
type container struct {
	XMLName           xml.Name `xml:"MediaContainer"`
	Size              string   `xml:"size,attr"`
	TotalSize         string   `xml:"totalSize,attr"`
	Offset            string   `xml:"offset,attr"`
	FriendlyName      string   `xml:"friendlyName,attr"`
	MachineIdentifier string   `xml:"machineIdentifier,attr"`
	Version           string   `xml:"version,attr"`
	Platform          string   `xml:"platform,attr"`
	PlayQueueID       string   `xml:"playQueueID,attr"`

	Timelines []timelineElement `xml:"Timeline"`
	Children  []child           `xml:",any"`
}

// child is one MediaContainer element together with the XML tag it was
// decoded from. Collecting children through a single ",any" field preserves
// the server's document order across element types, which carries meaning on
// endpoints like /search where results arrive ranked.
type child struct {
	tag string
	el  element
}

func (c *child) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	c.tag = start.Name.Local
	return d.DecodeElement(&c.el, &start)
}

// element is the attribute superset shared by Directory, Video, Track, Photo,
// Playlist, and Server elements.
type element struct {
	RatingKey             string `xml:"ratingKey,attr"`
	Key                   string `xml:"key,attr"`
	GUID                  string `xml:"guid,attr"`
	Type                  string `xml:"type,attr"`
	Title                 string `xml:"title,attr"`
	TitleSort             string `xml:"titleSort,attr"`
	Summary               string `xml:"summary,attr"`
	Index                 string `xml:"index,attr"`
	Year                  string `xml:"year,attr"`
	Thumb                 string `xml:"thumb,attr"`
	Art                   string `xml:"art,attr"`
	Studio                string `xml:"studio,attr"`
	ContentRating         string `xml:"contentRating,attr"`
	Rating                string `xml:"rating,attr"`
	UserRating            string `xml:"userRating,attr"`
	Duration              string `xml:"duration,attr"`
	ViewOffset            string `xml:"viewOffset,attr"`
	ViewCount             string `xml:"viewCount,attr"`
	LastViewedAt          string `xml:"lastViewedAt,attr"`
	AddedAt               string `xml:"addedAt,attr"`
	UpdatedAt             string `xml:"updatedAt,attr"`
	OriginallyAvailableAt string `xml:"originallyAvailableAt,attr"`

	LibrarySectionID    string `xml:"librarySectionID,attr"`
	LibrarySectionKey   string `xml:"librarySectionKey,attr"`
	LibrarySectionTitle string `xml:"librarySectionTitle,attr"`

	ParentRatingKey      string `xml:"parentRatingKey,attr"`
	ParentKey            string `xml:"parentKey,attr"`
	ParentTitle          string `xml:"parentTitle,attr"`
	ParentIndex          string `xml:"parentIndex,attr"`
	ParentThumb          string `xml:"parentThumb,attr"`
	GrandparentRatingKey string `xml:"grandparentRatingKey,attr"`
	GrandparentKey       string `xml:"grandparentKey,attr"`
	GrandparentTitle     string `xml:"grandparentTitle,attr"`

	LeafCount       string `xml:"leafCount,attr"`
	ViewedLeafCount string `xml:"viewedLeafCount,attr"`
	ChildCount      string `xml:"childCount,attr"`

	PlaylistItemID string `xml:"playlistItemID,attr"`
	PlaylistType   string `xml:"playlistType,attr"`
	Smart          string `xml:"smart,attr"`
	Composite      string `xml:"composite,attr"`

	// Library section attributes (/library/sections).
	UUID       string `xml:"uuid,attr"`
	Agent      string `xml:"agent,attr"`
	Scanner    string `xml:"scanner,attr"`
	Language   string `xml:"language,attr"`
	Refreshing string `xml:"refreshing,attr"`

	// Player client attributes (/clients).
	Name                 string `xml:"name,attr"`
	Host                 string `xml:"host,attr"`
	Address              string `xml:"address,attr"`
	Port                 string `xml:"port,attr"`
	MachineIdentifier    string `xml:"machineIdentifier,attr"`
	Product              string `xml:"product,attr"`
	Version              string `xml:"version,attr"`
	Platform             string `xml:"platform,attr"`
	Protocol             string `xml:"protocol,attr"`
	ProtocolVersion      string `xml:"protocolVersion,attr"`
	ProtocolCapabilities string `xml:"protocolCapabilities,attr"`
	DeviceClass          string `xml:"deviceClass,attr"`

	// Watch history attributes (/status/sessions/history/all).
	HistoryKey string `xml:"historyKey,attr"`
	ViewedAt   string `xml:"viewedAt,attr"`
	AccountID  string `xml:"accountID,attr"`
	DeviceID   string `xml:"deviceID,attr"`

	SessionKey string `xml:"sessionKey,attr"`

	Media     []mediaElement    `xml:"Media"`
	Locations []locationElement `xml:"Location"`
	User      *userElement      `xml:"User"`
	Player    *playerElement    `xml:"Player"`
}

type mediaElement struct {
	ID              string        `xml:"id,attr"`
	Duration        string        `xml:"duration,attr"`
	Bitrate         string        `xml:"bitrate,attr"`
	Width           string        `xml:"width,attr"`
	Height          string        `xml:"height,attr"`
	AudioChannels   string        `xml:"audioChannels,attr"`
	AudioCodec      string        `xml:"audioCodec,attr"`
	VideoCodec      string        `xml:"videoCodec,attr"`
	VideoResolution string        `xml:"videoResolution,attr"`
	Container       string        `xml:"container,attr"`
	Parts           []partElement `xml:"Part"`
}

type partElement struct {
	ID        string `xml:"id,attr"`
	Key       string `xml:"key,attr"`
	Duration  string `xml:"duration,attr"`
	File      string `xml:"file,attr"`
	Size      string `xml:"size,attr"`
	Container string `xml:"container,attr"`
}

type timelineElement struct {
	Type         string `xml:"type,attr"`
	State        string `xml:"state,attr"`
	Key          string `xml:"key,attr"`
	RatingKey    string `xml:"ratingKey,attr"`
	Time         string `xml:"time,attr"`
	Duration     string `xml:"duration,attr"`
	Volume       string `xml:"volume,attr"`
	Shuffle      string `xml:"shuffle,attr"`
	Repeat       string `xml:"repeat,attr"`
	Controllable string `xml:"controllable,attr"`
}

type locationElement struct {
	ID   string `xml:"id,attr"`
	Path string `xml:"path,attr"`
}

type userElement struct {
	ID    string `xml:"id,attr"`
	Title string `xml:"title,attr"`
	Thumb string `xml:"thumb,attr"`
}

type playerElement struct {
	Address           string `xml:"address,attr"`
	MachineIdentifier string `xml:"machineIdentifier,attr"`
	Product           string `xml:"product,attr"`
	State             string `xml:"state,attr"`
	Title             string `xml:"title,attr"`
}

// itemTags names the child tags that map onto media objects. The tag
// disambiguates types that share a type attribute (photo albums and photos
// both carry type="photo").
var itemTags = map[string]bool{
	"Directory": true,
	"Video":     true,
	"Track":     true,
	"Photo":     true,
	"Playlist":  true,
}

// elements returns the media children in document order.
func (c *container) elements() []child {
	out := make([]child, 0, len(c.Children))
	for _, ch := range c.Children {
		if itemTags[ch.tag] {
			out = append(out, ch)
		}
	}
	return out
}

// byTag returns the children decoded from the given tag, in document order.
func (c *container) byTag(tag string) []element {
	var out []element
	for _, ch := range c.Children {
		if ch.tag == tag {
			out = append(out, ch.el)
		}
	}
	return out
}

// objects maps every recognized element onto a typed object, silently
// skipping elements of unknown type.
func (c *container) objects(s *Server) []Object {
	entries := c.elements()
	out := make([]Object, 0, len(entries))
	for _, entry := range entries {
		obj, err := itemFromElement(s, entry.tag, entry.el)
		if err != nil {
			continue
		}
		out = append(out, obj)
	}
	return out
}

func (c *container) first() (string, element, bool) {
	entries := c.elements()
	if len(entries) == 0 {
		return "", element{}, false
	}
	return entries[0].tag, entries[0].el, true
}

func atoi(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}

func atoi64(value string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func atof(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return f
}

func toBool(value string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	return b
}

// toTime parses a unix-seconds attribute.
func toTime(value string) time.Time {
	seconds := atoi64(value)
	if seconds == 0 {
		return time.Time{}
	}
	return time.Unix(seconds, 0).UTC()
}

// toDate parses a yyyy-mm-dd attribute.
func toDate(value string) time.Time {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return time.Time{}
	}
	return t
}

// toDuration parses a milliseconds attribute.
func toDuration(value string) time.Duration {
	return time.Duration(atoi64(value)) * time.Millisecond
}
