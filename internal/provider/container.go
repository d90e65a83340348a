package provider

import (
	"time"

	"github.com/maison-next/internal/authz"
	"github.com/maison-next/internal/cache"
	"github.com/maison-next/internal/cart"
	"github.com/maison-next/internal/config"
	"github.com/maison-next/internal/logger"
	"github.com/maison-next/internal/models"
	"github.com/maison-next/internal/notify"
	"github.com/maison-next/internal/queue"
	"github.com/maison-next/internal/repository"
	"github.com/maison-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	CartManager *cart.Manager

	// Repositories
	AdminRepo          repository.AdminRepository
	CategoryRepo       repository.CategoryRepository
	ProductRepo        repository.ProductRepository
	BannerRepo         repository.BannerRepository
	SettingRepo        repository.SettingRepository
	OrderRepo          repository.OrderRepository
	PaymentRepo        repository.PaymentRepository
	PaymentChannelRepo repository.PaymentChannelRepository
	MediaRepo          repository.MediaRepository

	// Services
	AuthzService        *authz.Service
	AuthService         *service.AuthService
	CaptchaService      *service.CaptchaService
	CategoryService     *service.CategoryService
	ProductService      *service.ProductService
	BannerService       *service.BannerService
	SettingService      *service.SettingService
	OrderService        *service.OrderService
	PaymentService      *service.PaymentService
	MediaService        *service.MediaService
	NotificationService *service.NotificationService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initCartManager()
	c.initRepositories()
	c.initServices()

	return c
}

// initCartManager 购物车存储优先走 Redis，不可用时退化为进程内存
func (c *Container) initCartManager() {
	var storage cart.Storage
	if cache.Enabled() {
		ttlDays := c.Config.Cart.SessionTTLDays
		if ttlDays <= 0 {
			ttlDays = 30
		}
		storage = cart.NewRedisStorage(cache.Client(), time.Duration(ttlDays)*24*time.Hour)
	} else {
		logger.Warnw("provider_cart_storage_fallback_memory")
		storage = cart.NewMemoryStorage()
	}
	c.CartManager = cart.NewManager(storage, c.Config.Cart.KeyPrefix)
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.BannerRepo = repository.NewBannerRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
	c.PaymentChannelRepo = repository.NewPaymentChannelRepository(db)
	c.MediaRepo = repository.NewMediaRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.SettingService = service.NewSettingService(c.SettingRepo)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.ProductService = service.NewProductService(c.ProductRepo)
	c.BannerService = service.NewBannerService(c.BannerRepo)
	c.MediaService = service.NewMediaService(c.Config, c.MediaRepo)
	c.OrderService = service.NewOrderService(
		c.OrderRepo, c.ProductRepo, c.QueueClient, c.SettingService,
		c.Config.Order.Currency, c.Config.Order.PaymentExpireMinutes,
	)
	c.PaymentService = service.NewPaymentService(c.PaymentRepo, c.PaymentChannelRepo, c.OrderService, c.QueueClient)
	c.NotificationService = service.NewNotificationService(c.OrderRepo, notify.NewClient(c.Config.Notify), c.QueueClient)
}
