package service

import (
	"context"
	"errors"
	"sync"

	"github.com/celianh/marketplace-backend/internal/model"
	"github.com/celianh/marketplace-backend/internal/repository"
	"gorm.io/gorm"
)

type fakeFraudLogRepo struct {
	entries    []model.FraudLog
	failCreate bool
}

func (f *fakeFraudLogRepo) Create(_ context.Context, entry *model.FraudLog) error {
	if f.failCreate {
		return errors.New("insert failed")
	}
	entry.ID = uint64(len(f.entries) + 1)
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeFraudLogRepo) FindByID(_ context.Context, id uint64) (*model.FraudLog, error) {
	for i := range f.entries {
		if f.entries[i].ID == id {
			entry := f.entries[i]
			return &entry, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeFraudLogRepo) List(_ context.Context, suspiciousOnly bool, limit, offset int) ([]model.FraudLog, error) {
	var out []model.FraudLog
	for i := len(f.entries) - 1; i >= 0; i-- {
		if suspiciousOnly && !f.entries[i].IsSuspicious {
			continue
		}
		out = append(out, f.entries[i])
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeFraudLogRepo) Update(_ context.Context, entry *model.FraudLog) error {
	for i := range f.entries {
		if f.entries[i].ID == entry.ID {
			f.entries[i] = *entry
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeUserRepo struct {
	users  map[uint64]*model.User
	nextID uint64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint64]*model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	f.nextID++
	user.ID = f.nextID
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint64) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

type fakeArticleRepo struct {
	articles map[uint64]*model.Article
	nextID   uint64
}

func newFakeArticleRepo() *fakeArticleRepo {
	return &fakeArticleRepo{articles: make(map[uint64]*model.Article)}
}

func (f *fakeArticleRepo) add(a *model.Article) *model.Article {
	if a.ID == 0 {
		f.nextID++
		a.ID = f.nextID
	}
	cp := *a
	f.articles[a.ID] = &cp
	return a
}

func (f *fakeArticleRepo) Create(_ context.Context, article *model.Article) error {
	f.add(article)
	return nil
}

func (f *fakeArticleRepo) FindByID(_ context.Context, id uint64) (*model.Article, error) {
	a, ok := f.articles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeArticleRepo) ListApproved(_ context.Context, filter repository.ArticleFilter) ([]model.Article, error) {
	var out []model.Article
	for _, a := range f.articles {
		if !a.IsApproved {
			continue
		}
		if filter.CategoryID != nil && (a.CategoryID == nil || *a.CategoryID != *filter.CategoryID) {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeArticleRepo) ListAll(_ context.Context, limit, offset int) ([]model.Article, error) {
	var out []model.Article
	for _, a := range f.articles {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeArticleRepo) ListBySeller(_ context.Context, sellerID uint64, limit, offset int) ([]model.Article, error) {
	var out []model.Article
	for _, a := range f.articles {
		if a.SellerID == sellerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeArticleRepo) Update(_ context.Context, article *model.Article) error {
	if _, ok := f.articles[article.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *article
	f.articles[article.ID] = &cp
	return nil
}

func (f *fakeArticleRepo) Delete(_ context.Context, id uint64) error {
	delete(f.articles, id)
	return nil
}

type fakeConvRepo struct {
	convs        map[uint64]*model.Conversation
	msgs         []model.Message
	nextConvID   uint64
	nextMsgID    uint64
	articles     *fakeArticleRepo
	failCheckout bool
}

func newFakeConvRepo(articles *fakeArticleRepo) *fakeConvRepo {
	return &fakeConvRepo{convs: make(map[uint64]*model.Conversation), articles: articles}
}

func (f *fakeConvRepo) FindOrCreate(_ context.Context, articleID, buyerID, sellerID uint64) (*model.Conversation, error) {
	for _, cv := range f.convs {
		if cv.ArticleID == articleID && cv.BuyerID == buyerID {
			cp := *cv
			return &cp, nil
		}
	}
	f.nextConvID++
	cv := &model.Conversation{ID: f.nextConvID, ArticleID: articleID, BuyerID: buyerID, SellerID: sellerID}
	f.convs[cv.ID] = cv
	cp := *cv
	return &cp, nil
}

func (f *fakeConvRepo) FindByUser(_ context.Context, userID uint64) ([]model.Conversation, error) {
	var out []model.Conversation
	for _, cv := range f.convs {
		if cv.BuyerID == userID || cv.SellerID == userID {
			out = append(out, *cv)
		}
	}
	return out, nil
}

func (f *fakeConvRepo) FindByID(_ context.Context, id uint64) (*model.Conversation, error) {
	cv, ok := f.convs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *cv
	cp.Messages = nil
	for _, m := range f.msgs {
		if m.ConversationID == id {
			cp.Messages = append(cp.Messages, m)
		}
	}
	return &cp, nil
}

func (f *fakeConvRepo) CreateMessage(_ context.Context, msg *model.Message) error {
	f.nextMsgID++
	msg.ID = f.nextMsgID
	f.msgs = append(f.msgs, *msg)
	return nil
}

func (f *fakeConvRepo) ListMessages(_ context.Context, convID uint64) ([]model.Message, error) {
	var out []model.Message
	for _, m := range f.msgs {
		if m.ConversationID == convID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeConvRepo) CheckoutArticle(_ context.Context, msg *model.Message, articleID uint64) error {
	if f.failCheckout {
		return errors.New("tx failed")
	}
	f.nextMsgID++
	msg.ID = f.nextMsgID
	f.msgs = append(f.msgs, *msg)
	delete(f.articles.articles, articleID)
	return nil
}

type broadcastEvent struct {
	convID  uint64
	payload interface{}
}

type recordingHub struct {
	mu     sync.Mutex
	events []broadcastEvent
}

func (h *recordingHub) Broadcast(convID uint64, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, broadcastEvent{convID: convID, payload: payload})
}

func (h *recordingHub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}
