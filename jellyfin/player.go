package jellyfin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// Player is a controllable client connected to the server.
type Player struct {
	srv *Server

	Name                 string
	Host                 string
	Address              string
	Port                 int
	MachineIdentifier    string
	Product              string
	Version              string
	Platform             string
	Protocol             string
	ProtocolVersion      string
	ProtocolCapabilities []string
	DeviceClass          string

	proxyThroughServer bool
	commandID          atomic.Int64
}

func playerFromElement(srv *Server, el element) *Player {
	p := &Player{
		srv:               srv,
		Name:              el.Name,
		Host:              el.Host,
		Address:           el.Address,
		Port:              atoi(el.Port),
		MachineIdentifier: el.MachineIdentifier,
		Product:           el.Product,
		Version:           el.Version,
		Platform:          el.Platform,
		Protocol:          el.Protocol,
		ProtocolVersion:   el.ProtocolVersion,
		DeviceClass:       el.DeviceClass,
	}
	for _, capability := range strings.Split(el.ProtocolCapabilities, ",") {
		if capability = strings.TrimSpace(capability); capability != "" {
			p.ProtocolCapabilities = append(p.ProtocolCapabilities, capability)
		}
	}
	return p
}

// Clients returns the controllable players connected to the server.
func (s *Server) Clients(ctx context.Context) ([]*Player, error) {
	c, err := s.queryContainer(ctx, http.MethodGet, "/clients", nil, nil)
	if err != nil {
		return nil, err
	}
	servers := c.byTag("Server")
	players := make([]*Player, 0, len(servers))
	for _, el := range servers {
		players = append(players, playerFromElement(s, el))
	}
	return players, nil
}

// Client returns the connected player with the given name, case-insensitively.
func (s *Server) Client(ctx context.Context, name string) (*Player, error) {
	players, err := s.Clients(ctx)
	if err != nil {
		return nil, err
	}
	for _, player := range players {
		if strings.EqualFold(player.Name, name) {
			return player, nil
		}
	}
	return nil, fmt.Errorf("%w: client %q", ErrNotFound, name)
}

// ProxyThroughServer routes commands through the server instead of talking to
// the player directly. Players behind NAT are often only reachable this way.
func (p *Player) ProxyThroughServer(enabled bool) {
	p.proxyThroughServer = enabled
}

// HasCapability reports whether the player advertises the given protocol
// capability, such as "playback" or "navigation".
func (p *Player) HasCapability(capability string) bool {
	for _, have := range p.ProtocolCapabilities {
		if have == capability {
			return true
		}
	}
	return false
}

// SendCommand issues a raw player command such as "playback/play". The
// command's capability group is checked against the player's advertised
// capabilities first.
func (p *Player) SendCommand(ctx context.Context, command string, params url.Values) error {
	group, _, _ := strings.Cut(command, "/")
	if len(p.ProtocolCapabilities) > 0 && !p.HasCapability(group) {
		return fmt.Errorf("%w: player %q does not advertise the %q capability", ErrUnsupported, p.Name, group)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("commandID", strconv.FormatInt(p.commandID.Add(1), 10))

	path := "/player/" + command
	headers := map[string]string{
		"X-Jellyfin-Target-Client-Identifier": p.MachineIdentifier,
	}

	if p.proxyThroughServer {
		resp, err := p.srv.request(ctx, http.MethodGet, path, params, headers)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return p.directCommand(ctx, path, params, headers)
}

// directCommand issues a command straight at the player's own control port.
func (p *Player) directCommand(ctx context.Context, path string, params url.Values, headers map[string]string) error {
	if p.Address == "" || p.Port == 0 {
		return fmt.Errorf("%w: player %q advertises no direct address", ErrBadRequest, p.Name)
	}
	endpoint := fmt.Sprintf("http://%s:%d%s?%s", p.Address, p.Port, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build player request: %w", err)
	}
	p.srv.identity.Apply(req)
	if p.srv.token != "" {
		req.Header.Set("X-Jellyfin-Token", p.srv.token)
	}
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	resp, err := p.srv.client.Do(req)
	if err != nil {
		return fmt.Errorf("player %s %s: %w", p.Name, path, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return statusError(http.MethodGet, path, resp.StatusCode, "")
	}
	return nil
}

// PlayMedia starts playback of the given item on the player. A play queue is
// created server-side and handed to the player by container key, with the
// server's own address so the player knows where to stream from.
func (p *Player) PlayMedia(ctx context.Context, item Object, offset time.Duration) error {
	queueID, err := p.srv.createPlayQueue(ctx, item)
	if err != nil {
		return err
	}

	base, err := url.Parse(p.srv.baseURL)
	if err != nil {
		return fmt.Errorf("parse server url: %w", err)
	}
	port := base.Port()
	if port == "" {
		if base.Scheme == "https" {
			port = "443"
		} else {
			port = "80"
		}
	}

	params := url.Values{}
	params.Set("machineIdentifier", p.srv.MachineIdentifier)
	params.Set("protocol", base.Scheme)
	params.Set("address", base.Hostname())
	params.Set("port", port)
	params.Set("containerKey", fmt.Sprintf("/playQueues/%d?window=100&own=true", queueID))
	params.Set("key", ItemOf(item).Key)
	params.Set("offset", strconv.FormatInt(offset.Milliseconds(), 10))
	return p.SendCommand(ctx, "playback/playMedia", params)
}

// Play resumes playback.
func (p *Player) Play(ctx context.Context) error {
	return p.SendCommand(ctx, "playback/play", nil)
}

// Pause pauses playback.
func (p *Player) Pause(ctx context.Context) error {
	return p.SendCommand(ctx, "playback/pause", nil)
}

// Stop stops playback.
func (p *Player) Stop(ctx context.Context) error {
	return p.SendCommand(ctx, "playback/stop", nil)
}

// SkipNext advances to the next item in the queue.
func (p *Player) SkipNext(ctx context.Context) error {
	return p.SendCommand(ctx, "playback/skipNext", nil)
}

// SkipPrevious returns to the previous item in the queue.
func (p *Player) SkipPrevious(ctx context.Context) error {
	return p.SendCommand(ctx, "playback/skipPrevious", nil)
}

// SeekTo seeks within the playing item.
func (p *Player) SeekTo(ctx context.Context, offset time.Duration) error {
	params := url.Values{}
	params.Set("offset", strconv.FormatInt(offset.Milliseconds(), 10))
	return p.SendCommand(ctx, "playback/seekTo", params)
}

// SetVolume sets playback volume, 0 through 100.
func (p *Player) SetVolume(ctx context.Context, volume int) error {
	if volume < 0 || volume > 100 {
		return fmt.Errorf("%w: volume must be between 0 and 100, got %d", ErrBadRequest, volume)
	}
	params := url.Values{}
	params.Set("volume", strconv.Itoa(volume))
	params.Set("type", "music")
	return p.SendCommand(ctx, "playback/setParameters", params)
}

// Timeline is the playback state of one player content type.
type Timeline struct {
	Type         string
	State        string
	Key          string
	RatingKey    int64
	Time         time.Duration
	Duration     time.Duration
	Volume       int
	Shuffle      bool
	Repeat       int
	Controllable []string
}

// Timelines polls the player's current playback timelines, one per content
// type the player handles.
func (p *Player) Timelines(ctx context.Context) ([]Timeline, error) {
	group := "timeline"
	if len(p.ProtocolCapabilities) > 0 && !p.HasCapability(group) {
		return nil, fmt.Errorf("%w: player %q does not advertise the %q capability", ErrUnsupported, p.Name, group)
	}

	params := url.Values{}
	params.Set("wait", "0")
	params.Set("commandID", strconv.FormatInt(p.commandID.Add(1), 10))
	headers := map[string]string{
		"X-Jellyfin-Target-Client-Identifier": p.MachineIdentifier,
	}

	c, err := p.srv.queryContainer(ctx, http.MethodGet, "/player/timeline/poll", params, headers)
	if err != nil {
		return nil, err
	}
	timelines := make([]Timeline, 0, len(c.Timelines))
	for _, el := range c.Timelines {
		tl := Timeline{
			Type:      el.Type,
			State:     el.State,
			Key:       el.Key,
			RatingKey: atoi64(el.RatingKey),
			Time:      toDuration(el.Time),
			Duration:  toDuration(el.Duration),
			Volume:    atoi(el.Volume),
			Shuffle:   toBool(el.Shuffle),
			Repeat:    atoi(el.Repeat),
		}
		for _, ctrl := range strings.Split(el.Controllable, ",") {
			if ctrl = strings.TrimSpace(ctrl); ctrl != "" {
				tl.Controllable = append(tl.Controllable, ctrl)
			}
		}
		timelines = append(timelines, tl)
	}
	return timelines, nil
}
