package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"PhoneCompare/internal/interfaces"
	"PhoneCompare/internal/model"
	"PhoneCompare/internal/repository"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gorm.io/gorm"
)

func newTestLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

func floatPtr(v float64) *float64 { return &v }

// fakePhoneRepo 内存版 PhoneRepository
type fakePhoneRepo struct {
	phones    map[uint64]*model.Phone
	history   []*model.PriceHistory
	baselines map[uint64]float64
	nextID    uint64

	lastPriceErr error
	updateErr    error
	searchErr    error
}

var _ repository.PhoneRepository = (*fakePhoneRepo)(nil)

func newFakePhoneRepo(phones ...*model.Phone) *fakePhoneRepo {
	r := &fakePhoneRepo{phones: map[uint64]*model.Phone{}, baselines: map[uint64]float64{}}
	for _, p := range phones {
		r.nextID++
		if p.ID == 0 {
			p.ID = r.nextID
		}
		r.phones[p.ID] = p
	}
	return r
}

func (r *fakePhoneRepo) ListPhones(_ context.Context, filter repository.PhoneFilter, page, pageSize int) ([]*model.Phone, int64, error) {
	var all []*model.Phone
	for _, p := range r.phones {
		if filter.Brand != "" && !strings.EqualFold(p.Brand, filter.Brand) {
			continue
		}
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	start := (page - 1) * pageSize
	if start >= len(all) {
		return nil, int64(len(all)), nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], int64(len(all)), nil
}

func (r *fakePhoneRepo) GetByID(_ context.Context, id uint64) (*model.Phone, error) {
	if p, ok := r.phones[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePhoneRepo) GetBySlug(_ context.Context, slug string) (*model.Phone, error) {
	for _, p := range r.phones {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePhoneRepo) GetBySlugs(_ context.Context, slugs []string) ([]*model.Phone, error) {
	var out []*model.Phone
	// 反序返回，确认调用方不依赖仓储顺序
	for i := len(slugs) - 1; i >= 0; i-- {
		for _, p := range r.phones {
			if p.Slug == slugs[i] {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (r *fakePhoneRepo) UpsertPhone(_ context.Context, phone *model.Phone) error {
	for id, p := range r.phones {
		if p.Slug == phone.Slug {
			phone.ID = id
			r.phones[id] = phone
			return nil
		}
	}
	r.nextID++
	phone.ID = r.nextID
	r.phones[phone.ID] = phone
	return nil
}

func (r *fakePhoneRepo) UpdateLastPrice(_ context.Context, phoneID uint64, price float64) error {
	if r.lastPriceErr != nil {
		return r.lastPriceErr
	}
	r.baselines[phoneID] = price
	if p, ok := r.phones[phoneID]; ok {
		p.LastPrice = floatPtr(price)
	}
	return nil
}

func (r *fakePhoneRepo) UpdatePriceWithHistory(_ context.Context, phoneID uint64, oldPrice, newPrice float64) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	p, ok := r.phones[phoneID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Price = newPrice
	r.history = append(r.history, &model.PriceHistory{PhoneID: phoneID, OldPrice: oldPrice, NewPrice: newPrice})
	return nil
}

func (r *fakePhoneRepo) ListPriceHistory(_ context.Context, phoneID uint64, limit int) ([]*model.PriceHistory, error) {
	var out []*model.PriceHistory
	for _, h := range r.history {
		if h.PhoneID == phoneID {
			out = append(out, h)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakePhoneRepo) SearchPhones(_ context.Context, query string, limit int) ([]*model.Phone, error) {
	if r.searchErr != nil {
		return nil, r.searchErr
	}
	var out []*model.Phone
	q := strings.ToLower(query)
	for _, p := range r.phones {
		if strings.Contains(strings.ToLower(p.Name), q) && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeAlertRepo 内存版 AlertRepository
type fakeAlertRepo struct {
	alerts  []*model.PriceAlert
	listErr error
}

var _ repository.AlertRepository = (*fakeAlertRepo)(nil)

func (r *fakeAlertRepo) UpsertAlert(_ context.Context, alert *model.PriceAlert) error {
	for _, a := range r.alerts {
		if a.PhoneID == alert.PhoneID && a.Email == alert.Email {
			a.Active = true
			return nil
		}
	}
	alert.ID = uint64(len(r.alerts) + 1)
	alert.Active = true
	r.alerts = append(r.alerts, alert)
	return nil
}

func (r *fakeAlertRepo) Deactivate(_ context.Context, phoneID uint64, email string) (int64, error) {
	var n int64
	for _, a := range r.alerts {
		if a.PhoneID == phoneID && a.Email == email {
			a.Active = false
			n++
		}
	}
	return n, nil
}

func (r *fakeAlertRepo) DeactivateByToken(_ context.Context, token string) (int64, error) {
	var n int64
	for _, a := range r.alerts {
		if a.UnsubscribeToken == token {
			a.Active = false
			n++
		}
	}
	return n, nil
}

func (r *fakeAlertRepo) ListActiveByPhone(_ context.Context, phoneID uint64) ([]*model.PriceAlert, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*model.PriceAlert
	for _, a := range r.alerts {
		if a.PhoneID == phoneID && a.Active {
			out = append(out, a)
		}
	}
	return out, nil
}

// fakeArticleRepo 内存版 ArticleRepository
type fakeArticleRepo struct {
	articles []*model.Article
	upserted []*model.Article
}

var _ repository.ArticleRepository = (*fakeArticleRepo)(nil)

func (r *fakeArticleRepo) ListPublished(_ context.Context, page, pageSize int) ([]*model.Article, int64, error) {
	var out []*model.Article
	for _, a := range r.articles {
		if a.Published {
			out = append(out, a)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeArticleRepo) GetBySlug(_ context.Context, slug string) (*model.Article, error) {
	for _, a := range r.articles {
		if a.Slug == slug && a.Published {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeArticleRepo) UpsertBySourceURL(_ context.Context, article *model.Article) error {
	r.upserted = append(r.upserted, article)
	return nil
}

func (r *fakeArticleRepo) SearchArticles(_ context.Context, query string, limit int) ([]*model.Article, error) {
	var out []*model.Article
	q := strings.ToLower(query)
	for _, a := range r.articles {
		if strings.Contains(strings.ToLower(a.Title), q) && len(out) < limit {
			out = append(out, a)
		}
	}
	return out, nil
}

// fakeSender 记录发出的邮件；failFor 中的收件人返回错误
type fakeSender struct {
	sent    []*interfaces.Email
	failFor map[string]bool
}

func (s *fakeSender) Send(_ context.Context, email *interfaces.Email) (string, error) {
	if s.failFor[email.To] {
		return "", errors.New("mail api unavailable")
	}
	s.sent = append(s.sent, email)
	return "msg-" + email.To, nil
}

// fakeDispatcher 固定返回 result/err，并记录调用参数
type fakeDispatcher struct {
	result *interfaces.DispatchResult
	err    error

	calls    int
	newPrice float64
	oldPrice float64
	meta     interfaces.PhoneMeta
}

func (d *fakeDispatcher) CheckAndNotifyPriceDrop(_ context.Context, _ uint64, newPrice, oldPrice float64, meta interfaces.PhoneMeta) (*interfaces.DispatchResult, error) {
	d.calls++
	d.newPrice, d.oldPrice, d.meta = newPrice, oldPrice, meta
	return d.result, d.err
}
