package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"app/internal/model"
)

// In-memory repository fakes shared by the service tests.

type fakeProfileRepo struct {
	profiles    map[string]*model.Profile
	createCalls int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*model.Profile)}
}

func (r *fakeProfileRepo) GetProfileByID(_ context.Context, userID string) (*model.Profile, error) {
	if p, ok := r.profiles[userID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeProfileRepo) CreateProfile(_ context.Context, userID, email string) error {
	r.createCalls++
	if _, ok := r.profiles[userID]; ok {
		return nil // conflict clause: leave the existing row alone
	}
	now := time.Now()
	r.profiles[userID] = &model.Profile{
		UserID:    userID,
		Email:     email,
		Plan:      model.PlanFree,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (r *fakeProfileRepo) GetProfileByStripeCustomerID(_ context.Context, customerID string) (*model.Profile, error) {
	for _, p := range r.profiles {
		if p.StripeCustomerID != nil && *p.StripeCustomerID == customerID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProfileRepo) UpdateStripeCustomerID(_ context.Context, userID, customerID string) error {
	if p, ok := r.profiles[userID]; ok {
		p.StripeCustomerID = &customerID
	}
	return nil
}

func (r *fakeProfileRepo) ActivatePremium(_ context.Context, userID, customerID, subscriptionID string) (bool, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return false, nil
	}
	p.Plan = model.PlanPremium
	p.StripeCustomerID = &customerID
	p.StripeSubscriptionID = &subscriptionID
	return true, nil
}

func (r *fakeProfileRepo) DowngradeByCustomerID(_ context.Context, customerID string) (bool, error) {
	for _, p := range r.profiles {
		if p.StripeCustomerID != nil && *p.StripeCustomerID == customerID {
			p.Plan = model.PlanFree
			p.StripeSubscriptionID = nil
			return true, nil
		}
	}
	return false, nil
}

type fakePostRepo struct {
	posts  map[string]model.Post
	nextID int
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]model.Post)}
}

func (r *fakePostRepo) CreatePost(_ context.Context, p *model.Post) error {
	r.nextID++
	p.ID = fmt.Sprintf("post-%d", r.nextID)
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.posts[p.ID] = *p
	return nil
}

func (r *fakePostRepo) GetPostByID(_ context.Context, ownerID, postID string) (*model.Post, error) {
	if p, ok := r.posts[postID]; ok && p.OwnerID == ownerID {
		return &p, nil
	}
	return nil, nil
}

func (r *fakePostRepo) ListPostsByOwner(_ context.Context, ownerID string) ([]model.Post, error) {
	posts := []model.Post{}
	for _, p := range r.posts {
		if p.OwnerID == ownerID {
			posts = append(posts, p)
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].CreatedAt.After(posts[j].CreatedAt) })
	return posts, nil
}

func (r *fakePostRepo) UpdatePost(_ context.Context, p *model.Post) (bool, error) {
	existing, ok := r.posts[p.ID]
	if !ok || existing.OwnerID != p.OwnerID {
		return false, nil
	}
	existing.Title = p.Title
	existing.Content = p.Content
	existing.UpdatedAt = time.Now()
	r.posts[p.ID] = existing
	*p = existing
	return true, nil
}

func (r *fakePostRepo) DeletePost(_ context.Context, ownerID, postID string) (bool, error) {
	if p, ok := r.posts[postID]; ok && p.OwnerID == ownerID {
		delete(r.posts, postID)
		return true, nil
	}
	return false, nil
}

func (r *fakePostRepo) CountPostsByOwner(_ context.Context, ownerID string) (int, error) {
	count := 0
	for _, p := range r.posts {
		if p.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

type planChange struct {
	to   string
	plan model.Plan
}

type fakeEmailService struct {
	sent []planChange
}

func (s *fakeEmailService) SendPlanChanged(_ context.Context, to string, plan model.Plan) {
	s.sent = append(s.sent, planChange{to: to, plan: plan})
}
