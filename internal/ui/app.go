package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rivo/tview"
	"github.com/rs/zerolog"

	"github.com/OtisPresley/snmp-switch-manager-card/internal/domain"
	"github.com/OtisPresley/snmp-switch-manager-card/internal/export"
	"github.com/OtisPresley/snmp-switch-manager-card/internal/layout"
	"github.com/OtisPresley/snmp-switch-manager-card/internal/store"
)

const (
	mainPageName  = "*main*"
	quitPageName  = "*quit*"
	helpPageName  = "*help*"
	closePageName = "*close_editor*"
	jsonPageName  = "*layout_json*"
)

var GlobalKeys = []string{"<q> Quit", "<ctrl+s> Save"}

// Options wires an App to its host, storage and configuration.
type Options struct {
	Config  *domain.Config
	WorkDir string

	Host domain.Host
	// Reload rereads host states before a refresh. Optional.
	Reload func() (domain.States, error)

	Slots    store.Slots
	Notifier store.Notifier

	// Refresh is the host polling interval; zero disables polling.
	Refresh time.Duration
	Logger  zerolog.Logger
}

// App holds all UI state for the switch panel.
type App struct {
	Config  *domain.Config
	Host    domain.Host
	Catalog *domain.Catalog
	Session *layout.Session
	Bridge  *store.Bridge
	WorkDir string

	reload  func() (domain.States, error)
	refresh time.Duration
	logger  zerolog.Logger

	TviewApp *tview.Application
	Pages    *tview.Pages

	// Layout widgets.
	PanelView    *panelView
	DetailsPanel *tview.TextView
	StatusLine   *tview.TextView
	KeysLine     *tview.TextView
	DetailsFlex  *tview.Flex

	// FocusKey is the port shown in the details pane.
	FocusKey string

	// refreshPending remembers a host refresh deferred while the editor
	// or a gesture was open.
	refreshPending bool
	stopRefresh    chan struct{}

	quitDialog  *tview.Modal
	closeDialog *tview.Modal
	// jsonText is the text area of the open advanced JSON editor.
	jsonText *tview.TextArea

	// Test synchronization: if non-nil, closed when a sentinel key is received.
	SentinelCh chan struct{}
}

// New creates a new App from opts and sets up the UI.
func New(opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("no panel configuration")
	}
	if opts.Host == nil {
		return nil, fmt.Errorf("no host")
	}
	if opts.Slots == nil {
		opts.Slots = store.NewMemorySlots()
	}
	a := &App{
		Config:  opts.Config,
		Host:    opts.Host,
		WorkDir: opts.WorkDir,
		Bridge:  store.NewBridge(opts.Slots, opts.Notifier, opts.Logger),
		reload:  opts.Reload,
		refresh: opts.Refresh,
		logger:  opts.Logger,
	}
	a.Catalog = domain.NewCatalog(a.Host.States(), a.Config)
	a.Session = layout.NewSession(a.items(), layout.OptionsFromConfig(a.Config))
	a.Session.OnRender(a.onSessionRender)
	a.loadLayout()

	a.setupLayout()
	if keys := a.Catalog.Keys(); len(keys) > 0 {
		a.setFocus(keys[0])
	} else {
		a.renderDetails()
	}
	if a.Session.Active() {
		a.setStatus("Layout editor open")
	}
	return a, nil
}

func (a *App) items() []layout.Item {
	return layout.ItemsFromCatalog(a.Catalog, a.Config.UplinkPorts.Set())
}

// loadLayout seeds the session with the stored, configured or default layout.
// The registry keeps the seeded positions after Stop, so the read-only panel
// draws the same layout the editor would open with.
func (a *App) loadLayout() {
	a.Session.Start(a.Bridge.Load(a.Config))
	if !a.Bridge.EditorEnabled(a.Config) {
		a.Session.Stop()
	}
}

// Run starts the refresh loop and the tview application loop.
func (a *App) Run() error {
	a.startRefreshLoop()
	defer a.stopRefreshLoop()
	return a.TviewApp.Run()
}

// Stop stops the application.
func (a *App) Stop() {
	if a.TviewApp != nil {
		a.TviewApp.Stop()
	}
}

// setStatus updates the status line text.
func (a *App) setStatus(text string) {
	a.StatusLine.Clear()
	a.StatusLine.SetText(text)
}

// Save persists the open layout through the bridge and renders the markdown
// report next to the data directory.
func (a *App) Save() {
	if a.Session.Active() {
		if a.Session.GestureInProgress() {
			a.setStatus("Finish the current gesture before saving")
			return
		}
		if err := a.Bridge.Save(a.Config, a.Session.Snapshot()); err != nil {
			a.logger.Error().Err(err).Msg("save layout")
			a.setStatus("Error saving layout: " + err.Error())
			return
		}
		a.Session.MarkSaved()
	}

	md, err := export.RenderMarkdown(export.NewPanel(a.Config, a.Catalog, a.Session))
	if err != nil {
		a.setStatus("Error rendering markdown: " + err.Error())
		return
	}
	mdPath := filepath.Join(a.WorkDir, store.MarkdownFileName)
	if err := os.WriteFile(mdPath, []byte(md), 0o644); err != nil {
		a.setStatus("Error writing markdown: " + err.Error())
		return
	}

	if a.Session.Active() {
		a.setStatus("Saved layout to " + store.DataDirName + "/ and " + store.MarkdownFileName)
		return
	}
	a.setStatus("Saved " + store.MarkdownFileName)
}
