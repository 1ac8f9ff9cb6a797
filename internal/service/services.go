package service

import (
	"github.com/MKhiriev/go-vidtube/internal/config"
	"github.com/MKhiriev/go-vidtube/internal/logger"
	"github.com/MKhiriev/go-vidtube/internal/media"
	"github.com/MKhiriev/go-vidtube/internal/store"
	"github.com/MKhiriev/go-vidtube/internal/utils"
	"github.com/MKhiriev/go-vidtube/models"
)

type Services struct {
	AuthService    AuthService
	UserService    UserService
	ChannelService ChannelService
	HealthService  HealthService
}

func NewServices(
	storages *store.Storages,
	uploader media.Uploader,
	cfg config.StructuredConfig,
	buildInfo models.AppBuildInfo,
	logger *logger.Logger,
) (*Services, error) {
	tokens := NewTokenIssuer(cfg.Auth)

	health, err := NewHealthService(cfg.App.Version, buildInfo, storages.Pinger, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		AuthService:    NewAuthService(storages.Users, uploader, tokens, utils.NewPasswordHasher(cfg.App.BcryptCost), logger),
		UserService:    NewUserService(storages.Users, uploader, logger),
		ChannelService: NewChannelService(storages.Channels, logger),
		HealthService:  health,
	}, nil
}
