package blog

import (
	"context"
	"sort"
	"sync"
)

var _ blogRepo = (*repoMock)(nil)

type repoMock struct {
	Posts  map[int]*Post
	nextID int
	mutex  sync.Mutex
	// set to make every call fail
	Err error
}

func newRepoMock() *repoMock {
	return &repoMock{
		Posts:  make(map[int]*Post),
		nextID: 1,
	}
}

func (r *repoMock) slugTaken(slug string, exceptID int) bool {
	for id, p := range r.Posts {
		if p.Slug == slug && id != exceptID {
			return true
		}
	}
	return false
}

func (r *repoMock) AddPost(_ context.Context, post *Post) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.Err != nil {
		return r.Err
	}

	if r.slugTaken(post.Slug, 0) {
		return ErrSlugTaken
	}

	post.ID = r.nextID
	r.nextID++
	r.Posts[post.ID] = post
	return nil
}

func (r *repoMock) UpdatePost(_ context.Context, post *Post) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.Err != nil {
		return r.Err
	}

	existing, ok := r.Posts[post.ID]
	if !ok {
		return ErrPostNotFound
	}
	if r.slugTaken(post.Slug, post.ID) {
		return ErrSlugTaken
	}

	post.CreatedAt = existing.CreatedAt
	r.Posts[post.ID] = post
	return nil
}

func (r *repoMock) DeletePost(_ context.Context, id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.Err != nil {
		return r.Err
	}

	if _, ok := r.Posts[id]; !ok {
		return ErrPostNotFound
	}
	delete(r.Posts, id)
	return nil
}

func (r *repoMock) sorted(publishedOnly bool) []*Post {
	posts := []*Post{}
	for _, p := range r.Posts {
		if publishedOnly && !p.Published {
			continue
		}
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts
}

func (r *repoMock) All(_ context.Context) ([]*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.sorted(false), nil
}

func (r *repoMock) Published(_ context.Context) ([]*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.sorted(true), nil
}

func (r *repoMock) PublishedCount(_ context.Context) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.Err != nil {
		return -1, r.Err
	}
	return len(r.sorted(true)), nil
}

func (r *repoMock) PublishedPage(_ context.Context, page, size int) ([]*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	posts := r.sorted(true)
	start := (page - 1) * size
	if start >= len(posts) {
		return []*Post{}, nil
	}
	end := start + size
	if end > len(posts) {
		end = len(posts)
	}
	return posts[start:end], nil
}

func (r *repoMock) PublishedBySlug(_ context.Context, slug string) (*Post, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	for _, p := range r.Posts {
		if p.Slug == slug && p.Published {
			return p, nil
		}
	}
	return nil, ErrPostNotFound
}
