package api

import (
	"context"
	"strings"

	"PhoneCompare/internal/config"
	"PhoneCompare/internal/interfaces"
	"PhoneCompare/internal/model"
	"PhoneCompare/internal/repository"
	"PhoneCompare/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gorm.io/gorm"
)

type memPhones struct {
	phones    []*model.Phone
	baselines map[uint64]float64
}

var _ repository.PhoneRepository = (*memPhones)(nil)

func (m *memPhones) ListPhones(_ context.Context, _ repository.PhoneFilter, _, _ int) ([]*model.Phone, int64, error) {
	return m.phones, int64(len(m.phones)), nil
}

func (m *memPhones) GetByID(_ context.Context, id uint64) (*model.Phone, error) {
	for _, p := range m.phones {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memPhones) GetBySlug(_ context.Context, slug string) (*model.Phone, error) {
	for _, p := range m.phones {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memPhones) GetBySlugs(_ context.Context, slugs []string) ([]*model.Phone, error) {
	var out []*model.Phone
	for _, p := range m.phones {
		for _, s := range slugs {
			if p.Slug == s {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (m *memPhones) UpsertPhone(_ context.Context, phone *model.Phone) error {
	phone.ID = uint64(len(m.phones) + 1)
	m.phones = append(m.phones, phone)
	return nil
}

func (m *memPhones) UpdateLastPrice(_ context.Context, phoneID uint64, price float64) error {
	m.baselines[phoneID] = price
	return nil
}

func (m *memPhones) UpdatePriceWithHistory(_ context.Context, phoneID uint64, _, newPrice float64) error {
	p, err := m.GetByID(context.Background(), phoneID)
	if err != nil {
		return err
	}
	p.Price = newPrice
	return nil
}

func (m *memPhones) ListPriceHistory(_ context.Context, _ uint64, _ int) ([]*model.PriceHistory, error) {
	return nil, nil
}

func (m *memPhones) SearchPhones(_ context.Context, query string, _ int) ([]*model.Phone, error) {
	var out []*model.Phone
	for _, p := range m.phones {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			out = append(out, p)
		}
	}
	return out, nil
}

type memAlerts struct {
	alerts []*model.PriceAlert
}

func (m *memAlerts) UpsertAlert(_ context.Context, alert *model.PriceAlert) error {
	alert.Active = true
	m.alerts = append(m.alerts, alert)
	return nil
}

func (m *memAlerts) Deactivate(_ context.Context, phoneID uint64, email string) (int64, error) {
	var n int64
	for _, a := range m.alerts {
		if a.PhoneID == phoneID && a.Email == email {
			a.Active = false
			n++
		}
	}
	return n, nil
}

func (m *memAlerts) DeactivateByToken(_ context.Context, token string) (int64, error) {
	var n int64
	for _, a := range m.alerts {
		if a.UnsubscribeToken == token {
			a.Active = false
			n++
		}
	}
	return n, nil
}

func (m *memAlerts) ListActiveByPhone(_ context.Context, phoneID uint64) ([]*model.PriceAlert, error) {
	var out []*model.PriceAlert
	for _, a := range m.alerts {
		if a.PhoneID == phoneID && a.Active {
			out = append(out, a)
		}
	}
	return out, nil
}

type memArticles struct{}

func (memArticles) ListPublished(context.Context, int, int) ([]*model.Article, int64, error) {
	return nil, 0, nil
}

func (memArticles) GetBySlug(context.Context, string) (*model.Article, error) {
	return nil, gorm.ErrRecordNotFound
}

func (memArticles) UpsertBySourceURL(context.Context, *model.Article) error { return nil }

func (memArticles) SearchArticles(context.Context, string, int) ([]*model.Article, error) {
	return nil, nil
}

type countingSender struct {
	sent     int
	subjects []string
	bodies   []string
}

func (s *countingSender) Send(_ context.Context, email *interfaces.Email) (string, error) {
	s.sent++
	s.subjects = append(s.subjects, email.Subject)
	s.bodies = append(s.bodies, email.HTML)
	return "id", nil
}

type testEnv struct {
	router *gin.Engine
	phones *memPhones
	alerts *memAlerts
	sender *countingSender
	hook   *test.Hook
}

// newTestEnv mailEnabled 控制是否接入发信
func newTestEnv(cfg *config.Config, mailEnabled bool) *testEnv {
	gin.SetMode(gin.TestMode)
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	phones := &memPhones{
		baselines: map[uint64]float64{},
		phones: []*model.Phone{
			{ID: 1, Name: "Pixel 9", Slug: "pixel-9", Price: 799, Scores: []byte(`{"camera":9,"battery":9,"performance":9,"display":9,"value":1}`)},
			{ID: 2, Name: "Galaxy S24", Slug: "galaxy-s24", Price: 899, Scores: []byte(`{"camera":1,"battery":1,"performance":1,"display":1,"value":9}`)},
		},
	}
	alerts := &memAlerts{}
	sender := &countingSender{}

	var dispatcher interfaces.PriceDropDispatcher
	if mailEnabled {
		dispatcher = service.NewAlertDispatcher(alerts, sender, "https://phones.example.com", logger)
	}
	notifier := service.NewPriceDropNotifier(dispatcher, phones, mailEnabled, logger)

	h := &Handlers{
		Phone: NewPhoneHandler(
			service.NewPhoneService(phones, logger),
			service.NewCompareService(phones, logger),
			service.NewPriceService(phones, notifier, logger),
			logger,
		),
		Alert: NewAlertHandler(service.NewAlertService(alerts, phones, logger), logger),
		Article: NewArticleHandler(
			service.NewArticleService(memArticles{}, nil, logger),
			service.NewSearchService(phones, memArticles{}, logger),
			cfg.Feeds,
			logger,
		),
		Favorites: NewFavoritesHandler(false, logger),
	}
	return &testEnv{
		router: NewRouter(cfg, h, logger),
		phones: phones,
		alerts: alerts,
		sender: sender,
		hook:   hook,
	}
}
