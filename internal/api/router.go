// Package api exposes the engine over HTTP: rebuild triggers, sender and
// diagnostics inspection, and a websocket stream of engine events.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"github.com/bbernstein/pixelmux-go/internal/database/models"
	"github.com/bbernstein/pixelmux-go/internal/database/repositories"
	"github.com/bbernstein/pixelmux-go/internal/pixel"
	"github.com/bbernstein/pixelmux-go/internal/services/engine"
	"github.com/bbernstein/pixelmux-go/internal/services/network"
	"github.com/bbernstein/pixelmux-go/internal/services/pubsub"
	"github.com/bbernstein/pixelmux-go/internal/services/send"
)

// Options configures the router.
type Options struct {
	CORSOrigin string
	Debug      bool
}

// Repos bundles the data-access dependencies of the editing endpoints. Nil
// repositories disable the corresponding routes.
type Repos struct {
	Projects *repositories.ProjectRepository
	Fixtures *repositories.FixtureRepository
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for WebSocket
	},
}

// senderInfo is the JSON summary of one realized sender.
type senderInfo struct {
	Protocol   string  `json:"protocol"`
	Universe   int     `json:"universe"`
	Dest       string  `json:"dest"`
	Network    string  `json:"network"`
	DataLength int     `json:"dataLength"`
	FPS        float64 `json:"fps,omitempty"`
}

// NewRouter builds the HTTP handler.
func NewRouter(eng *engine.Service, sendService *send.Service, events *pubsub.PubSub, repos Repos, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{opts.CORSOrigin, "http://localhost:3000", "http://localhost:4000"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		Debug:            opts.Debug,
	})
	router.Use(corsMiddleware.Handler)

	router.Get("/health", healthHandler)

	router.Route("/api", func(r chi.Router) {
		r.Get("/diagnostics", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, map[string]string{"diagnostics": eng.Diagnostics()})
		})

		r.Get("/senders", func(w http.ResponseWriter, req *http.Request) {
			result := eng.Result()
			infos := make([]senderInfo, 0, len(result.Senders))
			for _, s := range result.Senders {
				infos = append(infos, senderInfo{
					Protocol:   s.Protocol().String(),
					Universe:   s.Universe(),
					Dest:       s.Dest(),
					Network:    s.Network(),
					DataLength: s.DataLength(),
					FPS:        s.FPS(),
				})
			}
			writeJSON(w, infos)
		})

		r.Post("/rebuild", func(w http.ResponseWriter, req *http.Request) {
			result := eng.Rebuild()
			writeJSON(w, map[string]interface{}{
				"senders":     len(result.Senders),
				"diagnostics": result.DiagnosticsString(),
			})
		})

		r.Get("/encoders", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, pixel.EncoderNames())
		})

		r.Get("/rate", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, map[string]int{"currentRate": sendService.CurrentRate()})
		})

		r.Get("/interfaces", func(w http.ResponseWriter, req *http.Request) {
			options, err := network.ListInterfaceOptions()
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			writeJSON(w, options)
		})

		if repos.Projects != nil && repos.Fixtures != nil {
			mountProjectRoutes(r, eng, repos)
		}
	})

	router.Get("/ws/events", func(w http.ResponseWriter, req *http.Request) {
		serveEvents(w, req, events)
	})

	return router
}

// mountProjectRoutes wires the project and fixture editing endpoints. Writes
// persist rows only; /load materializes a project's tree into the engine.
func mountProjectRoutes(r chi.Router, eng *engine.Service, repos Repos) {
	r.Route("/projects", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			projects, err := repos.Projects.FindAll(req.Context())
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			writeJSON(w, projects)
		})

		r.Post("/", func(w http.ResponseWriter, req *http.Request) {
			var project models.Project
			if err := json.NewDecoder(req.Body).Decode(&project); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if err := repos.Projects.Create(req.Context(), &project); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			writeJSONStatus(w, http.StatusCreated, project)
		})

		r.Route("/{projectID}", func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, req *http.Request) {
				project, err := repos.Projects.FindByID(req.Context(), chi.URLParam(req, "projectID"))
				if err != nil {
					http.Error(w, err.Error(), http.StatusInternalServerError)
					return
				}
				if project == nil {
					http.NotFound(w, req)
					return
				}
				writeJSON(w, project)
			})

			r.Delete("/", func(w http.ResponseWriter, req *http.Request) {
				if err := repos.Projects.Delete(req.Context(), chi.URLParam(req, "projectID")); err != nil {
					http.Error(w, err.Error(), http.StatusInternalServerError)
					return
				}
				w.WriteHeader(http.StatusNoContent)
			})

			r.Post("/load", func(w http.ResponseWriter, req *http.Request) {
				tree, err := repos.Fixtures.LoadTree(req.Context(), chi.URLParam(req, "projectID"))
				if err != nil {
					http.Error(w, err.Error(), http.StatusUnprocessableEntity)
					return
				}
				result := eng.SetTree(tree)
				writeJSON(w, map[string]interface{}{
					"senders":     len(result.Senders),
					"diagnostics": result.DiagnosticsString(),
				})
			})

			r.Get("/fixtures", func(w http.ResponseWriter, req *http.Request) {
				fixtures, err := repos.Fixtures.FindByProjectID(req.Context(), chi.URLParam(req, "projectID"))
				if err != nil {
					http.Error(w, err.Error(), http.StatusInternalServerError)
					return
				}
				writeJSON(w, fixtures)
			})

			r.Post("/fixtures", func(w http.ResponseWriter, req *http.Request) {
				var fix models.Fixture
				if err := json.NewDecoder(req.Body).Decode(&fix); err != nil {
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}
				fix.ProjectID = chi.URLParam(req, "projectID")
				if err := repos.Fixtures.Create(req.Context(), &fix); err != nil {
					http.Error(w, err.Error(), http.StatusInternalServerError)
					return
				}
				writeJSONStatus(w, http.StatusCreated, fix)
			})
		})
	})

	r.Route("/fixtures/{fixtureID}", func(r chi.Router) {
		r.Delete("/", func(w http.ResponseWriter, req *http.Request) {
			if err := repos.Fixtures.Delete(req.Context(), chi.URLParam(req, "fixtureID")); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})

		r.Post("/outputs", func(w http.ResponseWriter, req *http.Request) {
			var out models.OutputDefinition
			if err := json.NewDecoder(req.Body).Decode(&out); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			// Reject unknown protocols before they reach a tree load.
			if _, err := repositories.ParseProtocol(out.Protocol); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			out.FixtureID = chi.URLParam(req, "fixtureID")
			if err := repos.Fixtures.CreateOutput(req.Context(), &out); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			writeJSONStatus(w, http.StatusCreated, out)
		})
	})
}

// serveEvents streams rebuild and diagnostics events over a websocket until
// the client disconnects.
func serveEvents(w http.ResponseWriter, req *http.Request, events *pubsub.PubSub) {
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	defer func() { _ = conn.Close() }()

	rebuilds := events.Subscribe(pubsub.TopicRebuildCompleted, 16)
	defer events.Unsubscribe(rebuilds)
	diags := events.Subscribe(pubsub.TopicDiagnostics, 16)
	defer events.Unsubscribe(diags)

	// Reader goroutine: detect client close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case msg := <-rebuilds.Channel:
			if err := conn.WriteJSON(map[string]interface{}{"type": "rebuild", "senders": msg}); err != nil {
				return
			}
		case msg := <-diags.Channel:
			if err := conn.WriteJSON(map[string]interface{}{"type": "diagnostics", "message": msg}); err != nil {
				return
			}
		}
	}
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("response encode error: %v", err)
	}
}

func writeJSONStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("response encode error: %v", err)
	}
}
