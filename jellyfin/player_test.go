package jellyfin_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"jellyfinapi/jellyfin"
)

const clientsDocument = `<MediaContainer size="2">
	<Server name="Living Room" host="10.0.0.5" address="10.0.0.5" port="32500" machineIdentifier="client-1"
		product="Jellyfin for Android TV" version="2.0.0" platform="Android" protocol="jellyfin"
		protocolVersion="1" protocolCapabilities="timeline,playback,navigation" deviceClass="stb"/>
	<Server name="Kitchen Speaker" host="10.0.0.6" address="10.0.0.6" port="32500" machineIdentifier="client-2"
		product="Jellyfin Sound" version="1.2.0" platform="Linux" protocol="jellyfin"
		protocolVersion="1" protocolCapabilities="timeline" deviceClass="speaker"/>
</MediaContainer>`

func TestClients(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/clients" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(clientsDocument))
	}))
	defer server.Close()

	srv, err := jellyfin.New(server.URL, "token")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	players, err := srv.Clients(context.Background())
	if err != nil {
		t.Fatalf("Clients: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(players))
	}
	tv := players[0]
	if tv.Name != "Living Room" || tv.Port != 32500 || tv.MachineIdentifier != "client-1" {
		t.Fatalf("unexpected player: %+v", tv)
	}
	if !tv.HasCapability("playback") || tv.HasCapability("mirror") {
		t.Fatalf("unexpected capabilities: %v", tv.ProtocolCapabilities)
	}

	player, err := srv.Client(context.Background(), "kitchen speaker")
	if err != nil {
		t.Fatalf("Client: %v", err)
	}
	if player.MachineIdentifier != "client-2" {
		t.Fatalf("expected client-2, got %q", player.MachineIdentifier)
	}

	if _, err := srv.Client(context.Background(), "Bedroom"); !errors.Is(err, jellyfin.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSendCommandChecksCapabilities(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/clients" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(clientsDocument))
	}))
	defer server.Close()

	srv, err := jellyfin.New(server.URL, "token")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	speaker, err := srv.Client(context.Background(), "Kitchen Speaker")
	if err != nil {
		t.Fatalf("Client: %v", err)
	}

	err = speaker.Play(context.Background())
	if !errors.Is(err, jellyfin.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported for speaker without playback capability, got %v", err)
	}
}

func TestSendCommandProxiedThroughServer(t *testing.T) {
	t.Parallel()

	var gotTarget, gotCommandID, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		switch r.URL.Path {
		case "/clients":
			_, _ = w.Write([]byte(clientsDocument))
		case "/player/playback/play", "/player/playback/pause":
			gotPath = r.URL.Path
			gotTarget = r.Header.Get("X-Jellyfin-Target-Client-Identifier")
			gotCommandID = r.URL.Query().Get("commandID")
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	srv, err := jellyfin.New(server.URL, "token")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tv, err := srv.Client(context.Background(), "Living Room")
	if err != nil {
		t.Fatalf("Client: %v", err)
	}
	tv.ProxyThroughServer(true)

	if err := tv.Play(context.Background()); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if gotPath != "/player/playback/play" {
		t.Fatalf("unexpected command path %q", gotPath)
	}
	if gotTarget != "client-1" {
		t.Fatalf("expected target client header client-1, got %q", gotTarget)
	}
	if gotCommandID != "1" {
		t.Fatalf("expected first command id 1, got %q", gotCommandID)
	}

	if err := tv.Pause(context.Background()); err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if gotCommandID == "1" {
		t.Fatal("expected command id to increment across commands")
	}
}

func TestPlayMediaCreatesPlayQueue(t *testing.T) {
	t.Parallel()

	var queueURI, containerKey, offset, address string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		switch {
		case r.URL.Path == "/":
			_, _ = w.Write([]byte(rootDocument))
		case r.URL.Path == "/clients":
			_, _ = w.Write([]byte(clientsDocument))
		case r.URL.Path == "/library/metadata/101":
			_, _ = w.Write([]byte(movieDocument))
		case r.URL.Path == "/playQueues" && r.Method == http.MethodPost:
			queueURI = r.URL.Query().Get("uri")
			_, _ = w.Write([]byte(`<MediaContainer size="1" playQueueID="987"></MediaContainer>`))
		case r.URL.Path == "/player/playback/playMedia":
			q := r.URL.Query()
			containerKey = q.Get("containerKey")
			offset = q.Get("offset")
			address = q.Get("address")
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	srv, err := jellyfin.Connect(context.Background(), server.URL, "token")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	tv, err := srv.Client(context.Background(), "Living Room")
	if err != nil {
		t.Fatalf("Client: %v", err)
	}
	tv.ProxyThroughServer(true)
	movie, err := srv.FetchItem(context.Background(), "/library/metadata/101")
	if err != nil {
		t.Fatalf("FetchItem: %v", err)
	}

	if err := tv.PlayMedia(context.Background(), movie, 30*time.Second); err != nil {
		t.Fatalf("PlayMedia: %v", err)
	}
	if queueURI != "server://abc123/com.jellyfinapp.plugins.library/library/metadata/101" {
		t.Fatalf("unexpected play queue uri %q", queueURI)
	}
	if containerKey != "/playQueues/987?window=100&own=true" {
		t.Fatalf("unexpected container key %q", containerKey)
	}
	if offset != "30000" {
		t.Fatalf("expected offset 30000, got %q", offset)
	}
	if address == "" {
		t.Fatal("expected server address to be passed to the player")
	}
}

func TestTimelines(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		switch r.URL.Path {
		case "/clients":
			_, _ = w.Write([]byte(clientsDocument))
		case "/player/timeline/poll":
			_, _ = w.Write([]byte(`<MediaContainer size="3">
				<Timeline type="music" state="stopped"/>
				<Timeline type="photo" state="stopped"/>
				<Timeline type="video" state="playing" key="/library/metadata/101" ratingKey="101" time="45000" duration="7265000" volume="80" controllable="playPause,stop,seekTo"/>
			</MediaContainer>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	srv, err := jellyfin.New(server.URL, "token")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tv, err := srv.Client(context.Background(), "Living Room")
	if err != nil {
		t.Fatalf("Client: %v", err)
	}
	tv.ProxyThroughServer(true)

	timelines, err := tv.Timelines(context.Background())
	if err != nil {
		t.Fatalf("Timelines: %v", err)
	}
	if len(timelines) != 3 {
		t.Fatalf("expected 3 timelines, got %d", len(timelines))
	}
	video := timelines[2]
	if video.State != "playing" || video.RatingKey != 101 {
		t.Fatalf("unexpected video timeline: %+v", video)
	}
	if video.Time != 45*time.Second {
		t.Fatalf("expected playback time 45s, got %s", video.Time)
	}
	if len(video.Controllable) != 3 {
		t.Fatalf("unexpected controllable list: %v", video.Controllable)
	}
}
