package myjellyfin

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"jellyfinapi/jellyfin"
)

// Resource is one device linked to the account, typically a media server.
type Resource struct {
	account *Account

	Name             string
	ClientIdentifier string
	Product          string
	ProductVersion   string
	Provides         []string
	AccessToken      string
	Owned            bool
	LastSeenAt       time.Time
	Connections      []Connection
}

// Connection is one advertised way to reach a resource.
type Connection struct {
	URI      string
	Protocol string
	Address  string
	Port     int
	Local    bool
	Relay    bool
}

type resourceList struct {
	Resources []resourceElement `xml:"resource"`
}

type resourceElement struct {
	Name             string              `xml:"name,attr"`
	ClientIdentifier string              `xml:"clientIdentifier,attr"`
	Product          string              `xml:"product,attr"`
	ProductVersion   string              `xml:"productVersion,attr"`
	Provides         string              `xml:"provides,attr"`
	AccessToken      string              `xml:"accessToken,attr"`
	Owned            string              `xml:"owned,attr"`
	LastSeenAt       string              `xml:"lastSeenAt,attr"`
	Connections      []connectionElement `xml:"connections>connection"`
}

type connectionElement struct {
	URI      string `xml:"uri,attr"`
	Protocol string `xml:"protocol,attr"`
	Address  string `xml:"address,attr"`
	Port     string `xml:"port,attr"`
	Local    string `xml:"local,attr"`
	Relay    string `xml:"relay,attr"`
}

// Resources lists the devices linked to the account.
func (a *Account) Resources(ctx context.Context) ([]*Resource, error) {
	var list resourceList
	if err := a.client.doXML(ctx, http.MethodGet, "/api/v2/resources?includeHttps=1", a.Token, &list); err != nil {
		return nil, err
	}

	resources := make([]*Resource, 0, len(list.Resources))
	for _, el := range list.Resources {
		resource := &Resource{
			account:          a,
			Name:             el.Name,
			ClientIdentifier: el.ClientIdentifier,
			Product:          el.Product,
			ProductVersion:   el.ProductVersion,
			AccessToken:      strings.TrimSpace(el.AccessToken),
			Owned:            parseFlag(el.Owned),
		}
		for _, p := range strings.Split(el.Provides, ",") {
			if p = strings.TrimSpace(p); p != "" {
				resource.Provides = append(resource.Provides, p)
			}
		}
		if seconds, err := strconv.ParseInt(strings.TrimSpace(el.LastSeenAt), 10, 64); err == nil && seconds > 0 {
			resource.LastSeenAt = time.Unix(seconds, 0).UTC()
		}
		for _, conn := range el.Connections {
			port, _ := strconv.Atoi(strings.TrimSpace(conn.Port))
			resource.Connections = append(resource.Connections, Connection{
				URI:      strings.TrimRight(strings.TrimSpace(conn.URI), "/"),
				Protocol: strings.ToLower(strings.TrimSpace(conn.Protocol)),
				Address:  conn.Address,
				Port:     port,
				Local:    parseFlag(conn.Local),
				Relay:    parseFlag(conn.Relay),
			})
		}
		resources = append(resources, resource)
	}
	return resources, nil
}

// Resource returns the linked device with the given name, case-insensitively.
func (a *Account) Resource(ctx context.Context, name string) (*Resource, error) {
	resources, err := a.Resources(ctx)
	if err != nil {
		return nil, err
	}
	for _, resource := range resources {
		if strings.EqualFold(resource.Name, name) {
			return resource, nil
		}
	}
	return nil, fmt.Errorf("%w: resource %q", jellyfin.ErrNotFound, name)
}

// ProvidesServer reports whether the resource advertises server capability.
func (r *Resource) ProvidesServer() bool {
	for _, p := range r.Provides {
		if p == "server" {
			return true
		}
	}
	return false
}

// Connect picks the best advertised connection and returns a server client
// bound to it, authenticated with the resource access token. The account token
// is the fallback when the resource carries no token of its own.
func (r *Resource) Connect(ctx context.Context, opts ...jellyfin.Option) (*jellyfin.Server, error) {
	if !r.ProvidesServer() {
		return nil, fmt.Errorf("%w: resource %q does not provide a server", jellyfin.ErrUnsupported, r.Name)
	}
	uri := bestConnection(r.Connections)
	if uri == "" {
		return nil, fmt.Errorf("%w: resource %q advertises no usable connection", jellyfin.ErrNotFound, r.Name)
	}
	token := r.AccessToken
	if token == "" {
		token = r.account.Token
	}
	return jellyfin.Connect(ctx, uri, token, opts...)
}

// bestConnection scores advertised connections and returns the winner. Https
// wins over plain http, local addresses get a nudge, relays are penalized.
func bestConnection(connections []Connection) string {
	bestScore := -1
	bestURI := ""
	for _, conn := range connections {
		if conn.URI == "" {
			continue
		}
		score := 0
		if conn.Protocol == "https" {
			score += 50
		} else if conn.Protocol != "" {
			score -= 10
		}
		if conn.Local {
			score += 5
		}
		if conn.Relay {
			score -= 5
		}
		if score > bestScore {
			bestScore = score
			bestURI = conn.URI
		}
	}
	return bestURI
}

func parseFlag(value string) bool {
	if value == "" {
		return false
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false
	}
	return b
}
