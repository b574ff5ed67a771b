package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/gestaozabele/lapor/internal/config"
	httpmiddleware "github.com/gestaozabele/lapor/internal/http/middleware"
	"github.com/gestaozabele/lapor/internal/service"
	"github.com/gestaozabele/lapor/internal/taxonomy"
)

// Handler agrega os serviços usados pelos endpoints.
type Handler struct {
	cfg           *config.Config
	auth          *service.AuthService
	reports       *service.ReportService
	users         *service.UserService
	types         *taxonomy.TypeRepository
	sectors       *taxonomy.SectorRepository
	publicLimiter *httpmiddleware.RateLimiter
	userLimiter   *httpmiddleware.RateLimiter
}

// NewRouter devolve o roteador configurado com a superfície completa
// da API: submissão pública, painel, autenticação e retaguarda.
func NewRouter(cfg *config.Config, authService *service.AuthService, reportService *service.ReportService, userService *service.UserService, types *taxonomy.TypeRepository, sectors *taxonomy.SectorRepository) http.Handler {
	h := &Handler{
		cfg:           cfg,
		auth:          authService,
		reports:       reportService,
		users:         userService,
		types:         types,
		sectors:       sectors,
		publicLimiter: httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst),
		userLimiter:   httpmiddleware.NewRateLimiter(cfg.RateLimitUser.RequestsPerSecond, cfg.RateLimitUser.Burst),
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))
	r.Use(httpmiddleware.SessionAuth(authService))

	r.Group(func(public chi.Router) {
		public.Use(httpmiddleware.IPRateLimit(h.publicLimiter))

		public.Get("/health", h.Health)

		public.Route("/api", func(api chi.Router) {
			// submissões autenticadas têm teto próprio por conta,
			// além do limite por IP do grupo
			api.With(httpmiddleware.UserRateLimit(h.userLimiter)).Post("/reports", h.SubmitReport)
			api.Get("/form-data", h.FormData)
			api.Get("/dashboard", h.Dashboard)

			api.Route("/auth", func(auth chi.Router) {
				auth.Post("/register", h.Register)
				auth.Post("/login", h.Login)
				auth.Post("/logout", h.Logout)
				auth.Get("/me", h.Me)
			})
		})
	})

	r.Group(func(admin chi.Router) {
		admin.Use(httpmiddleware.RequireUser)
		admin.Use(httpmiddleware.RequireAdmin)

		admin.Get("/api/reports", h.ListReports)

		admin.Route("/api/admin", func(a chi.Router) {
			a.Patch("/reports/{id}", h.UpdateReportStatus)
			a.Delete("/reports/{id}", h.DeleteReport)

			a.Route("/pollution-types", func(t chi.Router) {
				t.Get("/", h.ListPollutionTypes)
				t.Post("/", h.CreatePollutionType)
				t.Patch("/{id}", h.UpdatePollutionType)
				t.Delete("/{id}", h.DeletePollutionType)
			})

			a.Route("/sectors", func(s chi.Router) {
				s.Get("/", h.ListSectors)
				s.Post("/", h.CreateSector)
				s.Patch("/{id}", h.UpdateSector)
				s.Delete("/{id}", h.DeleteSector)
			})

			a.Route("/users", func(u chi.Router) {
				u.Get("/", h.ListUsers)
				u.Patch("/{id}", h.UpdateUser)
				u.Delete("/{id}", h.DeleteUser)
			})
		})
	})

	return r
}

// Health confirma que o processo atende requisições.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, http.StatusOK, map[string]any{"status": "ok"})
}
