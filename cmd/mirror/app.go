package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/hexaflex/canvasdemo/gfx"
	"github.com/hexaflex/canvasdemo/store"
)

// App defines application context.
type App struct {
	config       *Config       // Application configuration.
	viewers      []*viewer     // One per open window.
	redis        *redis.Client // Set when the redis store is in use.
	ctx          context.Context
	cancel       context.CancelFunc
	log          *logrus.Entry // Application logger.
	lastRendered time.Time     // Last time a frame was rendered.
}

// NewApp creates a new application instance using the given configuration.
func NewApp(config *Config) *App {
	var a App
	a.config = config
	a.ctx, a.cancel = context.WithCancel(context.Background())
	a.log = logrus.WithField("component", AppName)
	return &a
}

// Run runs the application and does not return until every window is
// closed or an error occured during initialization.
func (a *App) Run() error {
	defer a.dispose()

	stores, err := a.openStores()
	if err != nil {
		return err
	}

	if err := a.initGL(stores); err != nil {
		return err
	}

	a.log.WithFields(logrus.Fields{
		"store":   a.config.Store,
		"key":     a.config.Key,
		"windows": len(a.viewers),
	}).Info(Version())
	printHelp(a.log)

	for a.anyOpen() {
		a.mainLoop()
	}

	return nil
}

// mainLoop performs all main loop operations.
func (a *App) mainLoop() {
	glfw.PollEvents()

	for _, v := range a.viewers {
		if v.window == nil {
			continue
		}

		if v.window.ShouldClose() {
			if err := v.close(); err != nil {
				a.log.Warn(err)
			}
			continue
		}

		v.poll()
	}

	if time.Since(a.lastRendered) >= time.Second/60 {
		a.lastRendered = time.Now()
		for _, v := range a.viewers {
			if v.window != nil {
				v.draw()
			}
		}
	}
}

func (a *App) anyOpen() bool {
	for _, v := range a.viewers {
		if v.window != nil {
			return true
		}
	}
	return false
}

// openStores creates one store handle per window.
func (a *App) openStores() ([]store.Store, error) {
	base := a.config.ID
	if base == "" {
		base = uuid.NewString()
	}

	origin := func(i int) string {
		if a.config.Windows == 1 {
			return base
		}
		return fmt.Sprintf("%s/%d", base, i)
	}

	stores := make([]store.Store, a.config.Windows)

	switch a.config.Store {
	case StoreRedis:
		client, err := store.Dial(a.ctx, a.config.RedisAddr, a.config.RedisPassword)
		if err != nil {
			return nil, err
		}
		a.redis = client
		a.log.WithField("addr", a.config.RedisAddr).Info("redis connected")

		for i := range stores {
			stores[i] = store.NewRedis(client, origin(i), a.config.Prefix)
		}

	default:
		bus := store.NewBus()
		for i := range stores {
			stores[i] = bus.Open(origin(i))
		}
	}

	return stores, nil
}

// dispose ensures openGL/GLFW and other resources are cleaned up.
func (a *App) dispose() {
	a.cancel()

	var errs gfx.ErrorSet
	for _, v := range a.viewers {
		errs.Append(v.close())
	}
	a.viewers = nil

	if a.redis != nil {
		errs.Append(a.redis.Close())
		a.redis = nil
	}

	if errs.Len() > 0 {
		a.log.Warn(errs.Err())
	}

	glfw.Terminate()
}

func (a *App) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}

	switch key {
	case glfw.KeyEscape:
		w.SetShouldClose(true)
	case glfw.KeyF1:
		printHelp(a.log)
	}
}

// initGL initializes GLFW and openGL and opens one window per store.
func (a *App) initGL(stores []store.Store) error {
	err := glfw.Init()
	if err != nil {
		return errors.Wrapf(err, "glfw.Init failed")
	}

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.Visible, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	for i, s := range stores {
		v := newViewer(s, a.config)
		a.viewers = append(a.viewers, v)

		title := fmt.Sprintf("%s %s - %s", AppName, AppVersion, s.Origin())
		if err := v.open(a.ctx, title, i == 0); err != nil {
			return err
		}

		v.window.SetKeyCallback(a.keyCallback)
		glfw.SwapInterval(0)
	}

	return nil
}

// clearWindow clears the current window to a neutral grey.
func clearWindow() {
	gl.ClearColor(0.2, 0.2, 0.2, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// printHelp writes a short overview of supported input to the log.
func printHelp(log *logrus.Entry) {
	var sb strings.Builder
	sb.WriteString("controls:\n")
	sb.WriteString(" Click    Draw a square and share the canvas.\n")
	sb.WriteString(" Wheel    Scroll the page.\n")
	sb.WriteString(" F1       Display this help.\n")
	sb.WriteString(" ESC      Close the window.")
	log.Info(sb.String())
}
