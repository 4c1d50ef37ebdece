package notifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	ps "github.com/mitchellh/go-ps"
	"github.com/zalando/go-keyring"
	"gopkg.in/gomail.v2"

	"github.com/julianstephens/habitual/internal/config"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func stubProcess(t *testing.T, executable string) {
	t.Helper()
	old := findProcessFunc
	t.Cleanup(func() { findProcessFunc = old })
	findProcessFunc = func(pid int) (ps.Process, error) {
		if executable == "" {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: executable}, nil
	}
}

func TestGetTrayAppConfigDir(t *testing.T) {
	tempDir := t.TempDir()
	old := userConfigDirFunc
	t.Cleanup(func() { userConfigDirFunc = old })
	userConfigDirFunc = func() (string, error) { return tempDir, nil }

	expectedDefault := filepath.Join(tempDir, constants.TrayAppIdentifier)
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != expectedDefault {
		t.Errorf("expected %s, got %s", expectedDefault, dir)
	}

	if err := os.MkdirAll(expectedDefault, 0755); err != nil {
		t.Fatal(err)
	}
	customDir := "/custom/habitual/dir"
	settingsJSON := fmt.Sprintf(`{"settings": {"lockfile_dir": %q}}`, customDir)
	if err := os.WriteFile(filepath.Join(expectedDefault, "settings.json"), []byte(settingsJSON), 0644); err != nil {
		t.Fatal(err)
	}

	dir, err = GetTrayAppConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != customDir {
		t.Errorf("expected %s, got %s", customDir, dir)
	}
}

func TestFindAndValidateTrayProcess(t *testing.T) {
	lockfilePath := filepath.Join(t.TempDir(), constants.NotifierLockfileName)

	if _, _, err := findAndValidateTrayProcess(lockfilePath); err == nil {
		t.Error("expected error for missing lockfile")
	}

	tests := []struct {
		name       string
		content    string
		executable string
		wantErr    string
	}{
		{"two-part format", "8080|12345", "habitual-tray", "malformed"},
		{"garbage", "invalid", "habitual-tray", "malformed"},
		{"empty secret", "8080|12345|", "habitual-tray", "secret"},
		{"empty port", "|12345|s3cret", "habitual-tray", "port"},
		{"port out of range", "99999|12345|s3cret", "habitual-tray", "outside valid range"},
		{"bad pid", "8080|abc|s3cret", "habitual-tray", "process ID"},
		{"process not running", "8080|12345|s3cret", "", "not running"},
		{"wrong executable", "8080|12345|s3cret", "other-app", "is not habitual-tray"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := os.WriteFile(lockfilePath, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			stubProcess(t, tt.executable)
			_, _, err := findAndValidateTrayProcess(lockfilePath)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}

	if err := os.WriteFile(lockfilePath, []byte("8080|12345|s3cret\n"), 0600); err != nil {
		t.Fatal(err)
	}
	stubProcess(t, "habitual-tray")
	port, secret, err := findAndValidateTrayProcess(lockfilePath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if port != "8080" || secret != "s3cret" {
		t.Errorf("got port %q secret %q", port, secret)
	}
}

func trayServer(t *testing.T, got *WebhookPayload) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get("X-Habitual-Secret") != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorized"))
			return
		}
		var payload WebhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if payload.Text == "fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if got != nil {
			*got = payload
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server
}

func serverPort(server *httptest.Server) string {
	parts := strings.Split(server.URL, ":")
	return parts[len(parts)-1]
}

func TestTraySend(t *testing.T) {
	port := serverPort(trayServer(t, nil))
	n := NewTray("")

	if err := n.send(port, "test-secret", WebhookPayload{Text: "hello"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := n.send(port, "wrong-secret", WebhookPayload{Text: "hello"}); err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("expected 401 error for wrong secret, got %v", err)
	}
	if err := n.send(port, "test-secret", WebhookPayload{Text: "fail"}); err == nil {
		t.Error("expected error for server failure")
	}
}

func TestTrayNotify_EndToEnd(t *testing.T) {
	var got WebhookPayload
	port := serverPort(trayServer(t, &got))

	dir := t.TempDir()
	lock := fmt.Sprintf("%s|4242|test-secret", port)
	if err := os.WriteFile(filepath.Join(dir, constants.NotifierLockfileName), []byte(lock), 0600); err != nil {
		t.Fatal(err)
	}
	stubProcess(t, "habitual-tray")

	err := NewTray(dir).Notify(Message{HabitID: "h1", Title: "Meditate", Body: "10 minutes"})
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if got.Text != "Meditate: 10 minutes" {
		t.Errorf("payload text = %q", got.Text)
	}
	if got.DurationMs != constants.NotificationDurationMs {
		t.Errorf("payload duration = %d", got.DurationMs)
	}
}

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func stubDialer(t *testing.T, f *fakeDialer) *config.SMTP {
	t.Helper()
	old := newDialer
	t.Cleanup(func() { newDialer = old })
	var seen config.SMTP
	newDialer = func(cfg config.SMTP) mailDialer {
		seen = cfg
		return f
	}
	return &seen
}

func TestEmailNotify(t *testing.T) {
	keyring.MockInit()
	f := &fakeDialer{}
	seen := stubDialer(t, f)

	cfg := config.SMTP{Host: "smtp.example.com", Port: 587, Username: "me", From: "habitual@example.com"}
	if err := keyring.Set(constants.AppName, constants.SMTPKeyringUser, "from-keyring"); err != nil {
		t.Fatal(err)
	}

	n, err := NewEmail(cfg, "me@example.com")
	if err != nil {
		t.Fatalf("NewEmail failed: %v", err)
	}
	if err := n.Notify(Message{Title: "Stretch"}); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	if len(f.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(f.sent))
	}
	m := f.sent[0]
	if to := m.GetHeader("To"); len(to) != 1 || to[0] != "me@example.com" {
		t.Errorf("To = %v", to)
	}
	if subj := m.GetHeader("Subject"); len(subj) != 1 || subj[0] != "Reminder: Stretch" {
		t.Errorf("Subject = %v", subj)
	}
	var body bytes.Buffer
	if _, err := m.WriteTo(&body); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(body.String(), "Time for Stretch.") {
		t.Errorf("body missing default text: %s", body.String())
	}
	if seen.Password != "from-keyring" {
		t.Errorf("dialer password = %q, want keyring value", seen.Password)
	}
}

func TestEmailNotify_Errors(t *testing.T) {
	keyring.MockInit()
	if _, err := NewEmail(config.SMTP{}, "me@example.com"); err == nil {
		t.Error("expected error without SMTP host")
	}
	cfg := config.SMTP{Host: "smtp.example.com", Port: 587, From: "habitual@example.com"}
	if _, err := NewEmail(cfg, ""); err == nil {
		t.Error("expected error without recipient")
	}

	stubDialer(t, &fakeDialer{err: errors.New("connection refused")})
	n, err := NewEmail(cfg, "me@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if err := n.Notify(Message{Title: "Read"}); err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Notify error = %v", err)
	}
}

func TestStdoutNotify(t *testing.T) {
	var buf bytes.Buffer
	if err := NewStdout(&buf).Notify(Message{Title: "Journal"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Journal") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestNew_SelectsChannel(t *testing.T) {
	cfg := &config.Config{SMTP: config.SMTP{Host: "smtp.example.com", From: "a@example.com", Password: "x"}}
	tests := []struct {
		channel string
		email   string
		want    string
		wantErr bool
	}{
		{constants.ChannelTray, "", constants.ChannelTray, false},
		{"", "", constants.ChannelTray, false},
		{constants.ChannelStdout, "", constants.ChannelStdout, false},
		{constants.ChannelEmail, "me@example.com", constants.ChannelEmail, false},
		{constants.ChannelEmail, "", "", true},
		{"pigeon", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.channel, func(t *testing.T) {
			s, err := New(models.Settings{ReminderChannel: tt.channel, ReminderEmail: tt.email}, cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", s.Name(), tt.want)
			}
		})
	}
}
