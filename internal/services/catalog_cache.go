package services

import (
	"log"
	"sync"
	"time"

	"boodaypizza/server/internal/models"
	"boodaypizza/server/internal/utils"

	"gorm.io/gorm"
)

const CatalogUpdateChannel = "catalog:update" // Канал Pub/Sub для инвалидации каталога

// Ключи кэшированных проекций каталога в Redis
const (
	catalogBranchesKey   = "catalog:branches"
	catalogCategoriesKey = "catalog:categories"
	catalogProductsKey   = "catalog:products"
)

// CatalogCache кэширует публичные проекции каталога.
// Два уровня: локальный in-process кэш и общие ключи в Redis, чтобы
// свежий инстанс не ходил в БД за каталогом, который сосед уже загрузил.
// Любая админ-мутация удаляет ключи и оповещает остальные инстансы через
// Pub/Sub. Без Redis кэш работает только локально, с fallback-сбросом
// по TTL.
type CatalogCache struct {
	db        *gorm.DB
	redisUtil *utils.RedisClient

	mu         sync.RWMutex
	branches   []models.Branch
	categories []models.Category
	products   []models.Product
	loadedAt   time.Time

	ttl        time.Duration
	stopPubSub chan struct{}
}

// NewCatalogCache создает новый кэш каталога
func NewCatalogCache(db *gorm.DB, redisUtil *utils.RedisClient) *CatalogCache {
	return &CatalogCache{
		db:         db,
		redisUtil:  redisUtil,
		ttl:        5 * time.Minute, // Fallback: сброс каждые 5 минут
		stopPubSub: make(chan struct{}),
	}
}

// Branches возвращает филиалы, из кэша если он свежий
func (cc *CatalogCache) Branches() ([]models.Branch, error) {
	cc.mu.RLock()
	if cc.branches != nil && time.Since(cc.loadedAt) < cc.ttl {
		cached := cc.branches
		cc.mu.RUnlock()
		return cached, nil
	}
	cc.mu.RUnlock()

	if err := cc.reload(); err != nil {
		return nil, err
	}

	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return cc.branches, nil
}

// Categories возвращает категории с подкатегориями, из кэша если он свежий
func (cc *CatalogCache) Categories() ([]models.Category, error) {
	cc.mu.RLock()
	if cc.categories != nil && time.Since(cc.loadedAt) < cc.ttl {
		cached := cc.categories
		cc.mu.RUnlock()
		return cached, nil
	}
	cc.mu.RUnlock()

	if err := cc.reload(); err != nil {
		return nil, err
	}

	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return cc.categories, nil
}

// Products возвращает продукты с филиалом и подкатегорией, из кэша если он свежий
func (cc *CatalogCache) Products() ([]models.Product, error) {
	cc.mu.RLock()
	if cc.products != nil && time.Since(cc.loadedAt) < cc.ttl {
		cached := cc.products
		cc.mu.RUnlock()
		return cached, nil
	}
	cc.mu.RUnlock()

	if err := cc.reload(); err != nil {
		return nil, err
	}

	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return cc.products, nil
}

// reload наполняет локальный кэш: сначала пробует общую копию в Redis,
// при промахе идет в БД и кладет загруженное обратно в Redis.
// Чтения идут без блокировки, блокируемся коротко на замену.
func (cc *CatalogCache) reload() error {
	if cc.loadFromRedis() {
		return nil
	}

	var branches []models.Branch
	if err := cc.db.Find(&branches).Error; err != nil {
		return err
	}

	var categories []models.Category
	if err := cc.db.Preload("Subcategories").Find(&categories).Error; err != nil {
		return err
	}

	var products []models.Product
	if err := cc.db.Preload("Branch").Preload("Subcategory").Find(&products).Error; err != nil {
		return err
	}

	cc.storeInRedis(branches, categories, products)
	cc.install(branches, categories, products)
	return nil
}

// loadFromRedis пробует взять все три проекции из Redis.
// Любой промах или ошибка - идем в БД
func (cc *CatalogCache) loadFromRedis() bool {
	if cc.redisUtil == nil {
		return false
	}

	var branches []models.Branch
	if err := cc.redisUtil.GetJSON(catalogBranchesKey, &branches); err != nil {
		return false
	}
	var categories []models.Category
	if err := cc.redisUtil.GetJSON(catalogCategoriesKey, &categories); err != nil {
		return false
	}
	var products []models.Product
	if err := cc.redisUtil.GetJSON(catalogProductsKey, &products); err != nil {
		return false
	}

	cc.install(branches, categories, products)
	return true
}

// storeInRedis кладет проекции под catalog:* ключи с TTL кэша
func (cc *CatalogCache) storeInRedis(branches []models.Branch, categories []models.Category, products []models.Product) {
	if cc.redisUtil == nil {
		return
	}

	if err := cc.redisUtil.Set(catalogBranchesKey, branches, cc.ttl); err != nil {
		log.Printf("⚠️ Ошибка записи %s: %v", catalogBranchesKey, err)
		return
	}
	if err := cc.redisUtil.Set(catalogCategoriesKey, categories, cc.ttl); err != nil {
		log.Printf("⚠️ Ошибка записи %s: %v", catalogCategoriesKey, err)
		return
	}
	if err := cc.redisUtil.Set(catalogProductsKey, products, cc.ttl); err != nil {
		log.Printf("⚠️ Ошибка записи %s: %v", catalogProductsKey, err)
	}
}

func (cc *CatalogCache) install(branches []models.Branch, categories []models.Category, products []models.Product) {
	cc.mu.Lock()
	cc.branches = branches
	cc.categories = categories
	cc.products = products
	cc.loadedAt = time.Now()
	cc.mu.Unlock()
}

// Invalidate сбрасывает кэш локально, удаляет общие ключи
// и оповещает остальные инстансы
func (cc *CatalogCache) Invalidate() {
	cc.dropLocal()

	if cc.redisUtil == nil {
		return
	}

	if err := cc.redisUtil.Delete(catalogBranchesKey, catalogCategoriesKey, catalogProductsKey); err != nil {
		log.Printf("⚠️ Ошибка удаления catalog:* ключей: %v", err)
	}
	if err := cc.redisUtil.Publish(CatalogUpdateChannel, "invalidate"); err != nil {
		log.Printf("⚠️ Ошибка публикации в %s: %v", CatalogUpdateChannel, err)
	}
}

func (cc *CatalogCache) dropLocal() {
	cc.mu.Lock()
	cc.branches = nil
	cc.categories = nil
	cc.products = nil
	cc.mu.Unlock()
}

// StartAutoReload подписывается на Pub/Sub канал инвалидации.
// Мутировавший инстанс уже удалил catalog:* ключи, подписчику достаточно
// сбросить локальную копию. Без Redis делать нечего - TTL кэша и так
// ограничивает устаревание.
func (cc *CatalogCache) StartAutoReload() {
	if cc.redisUtil == nil {
		return
	}

	go func() {
		pubsub := cc.redisUtil.Subscribe(CatalogUpdateChannel)
		defer pubsub.Close()

		ch := pubsub.Channel()
		log.Printf("📡 Подписка на %s активна", CatalogUpdateChannel)

		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				_ = msg
				cc.dropLocal()
			case <-cc.stopPubSub:
				return
			}
		}
	}()
}

// Stop останавливает подписку Pub/Sub
func (cc *CatalogCache) Stop() {
	close(cc.stopPubSub)
}
