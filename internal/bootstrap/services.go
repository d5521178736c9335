package bootstrap

import (
	"time"

	"github.com/indrhi/suministros-api/internal/application/analytics"
	"github.com/indrhi/suministros-api/internal/application/auth"
	"github.com/indrhi/suministros-api/internal/application/intake"
	"github.com/indrhi/suministros-api/internal/application/lifecycle"
	"github.com/indrhi/suministros-api/internal/application/ports"
	"github.com/indrhi/suministros-api/internal/application/usecase"
	"github.com/indrhi/suministros-api/internal/infrastructure/metrics"
	"github.com/indrhi/suministros-api/internal/infrastructure/pdf"
	"github.com/indrhi/suministros-api/pkg/config"
	"github.com/indrhi/suministros-api/pkg/logger"
)

// Services casos de uso listos para los handlers o los comandos.
type Services struct {
	Articles    *usecase.ArticleUseCase
	Departments *usecase.DepartmentUseCase
	Users       *usecase.UserUseCase
	Auth        *auth.AuthUseCase
	Lifecycle   *lifecycle.UseCase
	Intake      *intake.UseCase
	Dashboard   *analytics.DashboardUseCase
}

// NewServices conecta los casos de uso con el almacenamiento. cache puede ser nil.
func NewServices(cfg *config.Config, st *Storage, cache ports.CatalogCache, log *logger.Logger) *Services {
	if cache == nil {
		cache = ports.NopCatalogCache{}
	}
	recorder := metrics.Recorder{}
	return &Services{
		Articles:    usecase.NewArticleUseCase(st.Articles, cache),
		Departments: usecase.NewDepartmentUseCase(st.Departments),
		Users:       usecase.NewUserUseCase(st.Users, st.Departments),
		Auth: auth.NewAuthUseCase(st.Users, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}),
		Lifecycle: lifecycle.NewUseCase(lifecycle.Deps{
			Tx:          st.Tx,
			Requests:    st.Requests,
			Departments: st.Departments,
			Cache:       cache,
			Metrics:     recorder,
			Notes:       pdf.NewDispatchNoteRenderer(),
			Log:         log,
			Now:         time.Now,
			Options:     lifecycle.Options{DispatchDecrementsStock: cfg.Lifecycle.DispatchDecrementsStock},
		}),
		Intake:    intake.NewUseCase(st.Tx, st.Entries, cache, recorder, log, time.Now),
		Dashboard: analytics.NewDashboardUseCase(st.Articles, st.Requests, time.Now),
	}
}
