package testutil

import (
	"time"

	"github.com/reelmates/backend/internal/entity"
	"github.com/reelmates/backend/internal/repository"
	"github.com/reelmates/backend/pkg/docstore"
)

var (
	User1 = entity.User{
		ID:        "user1",
		Username:  "mia",
		Name:      "Mia Vargas",
		AvatarURL: "https://cdn.example.com/avatars/mia.png",
	}

	User2 = entity.User{
		ID:        "user2",
		Username:  "theo",
		Name:      "Theo Lindqvist",
		AvatarURL: "https://cdn.example.com/avatars/theo.png",
	}

	User3 = entity.User{
		ID:       "user3",
		Username: "june",
		Name:     "June Park",
	}

	Review1 = entity.MovieReview{
		ID:         "review1",
		UserID:     User1.ID,
		MovieID:    "movie1",
		MovieTitle: "Heat",
		PosterPath: "/posters/heat.jpg",
		Rating:     4.5,
		Content:    "Still the best diner scene ever filmed.",
		CreatedAt:  time.Date(2024, time.March, 10, 20, 30, 0, 0, time.UTC),
	}

	Question1 = entity.CommunityQuestion{
		ID:        "question1",
		UserID:    User2.ID,
		Content:   "Which movie has the best opening shot?",
		CreatedAt: time.Date(2024, time.March, 12, 9, 0, 0, 0, time.UTC),
	}

	Poll1 = entity.MoviePoll{
		ID:       "poll1",
		UserID:   User1.ID,
		Question: "Best De Niro performance?",
		Options: []entity.PollOption{
			{ID: "option1", Text: "Heat"},
			{ID: "option2", Text: "Taxi Driver"},
		},
		CreatedAt: time.Date(2024, time.March, 13, 18, 0, 0, 0, time.UTC),
	}
)

// CreateFixtureStore builds an in-memory store preloaded with the sample
// users and content above.
func CreateFixtureStore() docstore.Store {
	ctx := MockContext()
	store := docstore.NewMemoryStore()

	userRepo := repository.NewUserRepository()
	for _, user := range []entity.User{User1, User2, User3} {
		u := user
		if err := userRepo.Create(ctx, store, &u); err != nil {
			panic(err)
		}
	}

	review := Review1
	if err := repository.NewReviewRepository(store).Create(ctx, store, &review); err != nil {
		panic(err)
	}

	question := Question1
	if err := repository.NewQuestionRepository(store).Create(ctx, store, &question); err != nil {
		panic(err)
	}

	poll := Poll1
	if err := repository.NewPollRepository(store).Create(ctx, store, &poll); err != nil {
		panic(err)
	}

	return store
}
