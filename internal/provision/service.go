package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gestaozabele/lapor/internal/config"
	"github.com/gestaozabele/lapor/internal/taxonomy"
	"github.com/gestaozabele/lapor/internal/user"
	"github.com/gestaozabele/lapor/internal/util"
)

// defaultAdminPassword é a senha usada quando ADMIN_PASSWORD não está
// definida; o log avisa para trocá-la após o primeiro acesso.
const defaultAdminPassword = "Admin123!"

type adminUserStore interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	Update(ctx context.Context, userID string, input user.UpdateInput) (*user.User, error)
}

type registrar interface {
	Register(ctx context.Context, email, password, name, phone string) (*user.User, error)
}

// Service executa as tarefas de inicialização: conta administrativa
// padrão e seed das taxonomias. Todas as operações são idempotentes.
type Service struct {
	auth    registrar
	users   adminUserStore
	types   *taxonomy.TypeRepository
	sectors *taxonomy.SectorRepository
	logger  zerolog.Logger
}

// New cria o serviço de inicialização.
func New(auth registrar, users adminUserStore, types *taxonomy.TypeRepository, sectors *taxonomy.SectorRepository, logger zerolog.Logger) *Service {
	return &Service{auth: auth, users: users, types: types, sectors: sectors, logger: logger}
}

// Initialize garante a conta administrativa e o seed das taxonomias.
// Falha aqui impede o servidor de subir.
func (s *Service) Initialize(ctx context.Context, cfg *config.Config) error {
	if err := s.ensureAdminAccount(ctx, cfg); err != nil {
		return fmt.Errorf("provision: admin: %w", err)
	}
	if err := s.seedTaxonomies(ctx); err != nil {
		return fmt.Errorf("provision: seed: %w", err)
	}
	return nil
}

// ensureAdminAccount cria a conta administrativa padrão quando ela não
// existe. Uma conta homônima sem papel administrativo é promovida,
// preservando a senha existente.
func (s *Service) ensureAdminAccount(ctx context.Context, cfg *config.Config) error {
	if check := util.ValidatePassword(cfg.AdminPassword); !check.Valid {
		return errors.New("ADMIN_PASSWORD rejeitada: " + check.Reason)
	}

	existing, err := s.users.GetByEmail(ctx, cfg.AdminEmail)
	if err != nil && !errors.Is(err, user.ErrNotFound) {
		return err
	}
	if existing != nil {
		if existing.IsAdmin {
			s.logger.Info().Str("email", cfg.AdminEmail).Msg("provision: conta administrativa já existe")
			return nil
		}
		isAdmin := true
		if _, err := s.users.Update(ctx, existing.UserID, user.UpdateInput{IsAdmin: &isAdmin}); err != nil {
			return err
		}
		s.logger.Warn().Str("email", cfg.AdminEmail).Msg("provision: conta existente promovida a administrador")
		return nil
	}

	created, err := s.auth.Register(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName, cfg.AdminPhone)
	if err != nil {
		return err
	}

	isAdmin := true
	if _, err := s.users.Update(ctx, created.UserID, user.UpdateInput{IsAdmin: &isAdmin}); err != nil {
		return err
	}

	s.logger.Info().Str("email", cfg.AdminEmail).Str("name", cfg.AdminName).Msg("provision: conta administrativa criada")
	if cfg.AdminPassword == defaultAdminPassword {
		s.logger.Warn().Msg("provision: senha administrativa padrão em uso, defina ADMIN_PASSWORD e troque após o primeiro login")
	}
	return nil
}

// seedTaxonomies popula tipos e setores padrão apenas quando as
// coleções estão vazias, para não sobrescrever curadoria administrativa.
func (s *Service) seedTaxonomies(ctx context.Context) error {
	types, err := s.types.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(types) == 0 {
		for _, input := range taxonomy.DefaultPollutionTypes {
			if _, err := s.types.Create(ctx, input); err != nil {
				return err
			}
		}
		s.logger.Info().Int("count", len(taxonomy.DefaultPollutionTypes)).Msg("provision: tipos de poluição padrão criados")
	}

	sectors, err := s.sectors.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(sectors) == 0 {
		for _, input := range taxonomy.DefaultSectors {
			if _, err := s.sectors.Create(ctx, input); err != nil {
				return err
			}
		}
		s.logger.Info().Int("count", len(taxonomy.DefaultSectors)).Msg("provision: setores padrão criados")
	}
	return nil
}
