package seed

import (
	"fmt"
	"strings"
	"time"

	"blogapp/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the password every seeded user signs in with.
const DefaultPassword = "password123"

const maxPostAgeDays = 90

// Factory builds fake users, posts and comments. It is not safe for
// concurrent use.
type Factory struct {
	faker *gofakeit.Faker
	hash  string
	now   func() time.Time
}

// NewFactory returns a factory over a faker seeded with randSeed, or a
// time-based seed when randSeed is zero.
func NewFactory(randSeed int64) *Factory {
	if randSeed == 0 {
		randSeed = time.Now().UnixNano()
	}
	return &Factory{faker: gofakeit.New(randSeed), now: time.Now}
}

func (f *Factory) passwordHash() (string, error) {
	if f.hash != "" {
		return f.hash, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash seed password: %w", err)
	}
	f.hash = string(hash)
	return f.hash, nil
}

// User builds the i-th seeded author with its profile attached.
func (f *Factory) User(i int) (*models.User, error) {
	hash, err := f.passwordHash()
	if err != nil {
		return nil, err
	}

	first, last := f.faker.FirstName(), f.faker.LastName()
	local := fmt.Sprintf("%s.%s%d", strings.ToLower(first), strings.ToLower(last), i+1)
	user := &models.User{
		Email:    local + "@example.com",
		Username: local,
		FullName: first + " " + last,
		Password: hash,
	}
	profile := &models.Profile{
		Bio:      truncate(f.faker.JobTitle(), 100),
		About:    truncate(f.faker.Sentence(8), 100),
		Author:   true,
		Country:  truncate(f.faker.Country(), 100),
		Facebook: "https://facebook.com/" + local,
		Twitter:  "https://twitter.com/" + local,
	}
	profile.ApplyDefaults(user)
	user.Profile = profile
	return user, nil
}

// Post builds a post by author in one of categories. Most posts are Active.
func (f *Factory) Post(author *models.User, categories []models.Category) *models.Post {
	post := &models.Post{
		UserID:      author.ID,
		Title:       truncate(strings.TrimSuffix(f.faker.Sentence(f.faker.Number(3, 7)), "."), 100),
		Image:       fmt.Sprintf("https://picsum.photos/seed/%s/1200/628", f.faker.UUID()),
		Description: f.faker.Paragraph(3, 4, 12, "\n\n"),
		Tags:        f.tags(),
		Status:      f.status(),
		View:        uint64(f.faker.Number(0, 5000)),
		CreatedAt:   f.pastTime(),
	}
	if author.Profile != nil && author.Profile.ID != 0 {
		profileID := author.Profile.ID
		post.ProfileID = &profileID
	}
	if len(categories) > 0 {
		categoryID := categories[f.faker.Number(0, len(categories)-1)].ID
		post.CategoryID = &categoryID
	}
	return post
}

// Comment builds an anonymous reader comment on postID.
func (f *Factory) Comment(postID uint) models.Comment {
	c := models.Comment{
		PostID:    postID,
		Name:      truncate(f.faker.Name(), 100),
		Email:     truncate(f.faker.Email(), 100),
		Comment:   f.faker.Sentence(f.faker.Number(6, 20)),
		CreatedAt: f.pastTime(),
	}
	if f.Chance(30) {
		c.Reply = f.faker.Sentence(6)
	}
	return c
}

// Count returns a random count in [lo, hi].
func (f *Factory) Count(lo, hi int) int {
	return f.faker.Number(lo, hi)
}

// Chance reports true with the given percent probability.
func (f *Factory) Chance(percent int) bool {
	return f.faker.Number(1, 100) <= percent
}

func (f *Factory) tags() string {
	words := make([]string, f.faker.Number(1, 4))
	for i := range words {
		words[i] = strings.ToLower(f.faker.Noun())
	}
	return truncate(models.NormalizeTags(strings.Join(words, ",")), 255)
}

func (f *Factory) status() string {
	switch n := f.faker.Number(1, 10); {
	case n <= 8:
		return models.PostStatusActive
	case n == 9:
		return models.PostStatusDraft
	default:
		return models.PostStatusDisabled
	}
}

func (f *Factory) pastTime() time.Time {
	now := f.now()
	return f.faker.DateRange(now.AddDate(0, 0, -maxPostAgeDays), now)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n])
}
