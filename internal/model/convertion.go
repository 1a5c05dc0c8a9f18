package model

import "github.com/reelmates/backend/internal/entity"

func ConvertUser(user *entity.User) User {
	favorites := []ContentRef{}
	for _, ref := range user.TopFavorites {
		favorites = append(favorites, ContentRef{Kind: ref.Kind, ID: ref.ID})
	}

	return User{
		ID:             user.ID,
		Username:       user.Username,
		Name:           user.Name,
		AvatarURL:      user.AvatarURL,
		FollowerCount:  user.FollowerCount,
		FollowingCount: user.FollowingCount,
		TopFavorites:   favorites,
		CreatedAt:      user.CreatedAt,
	}
}

func ConvertFriends(friends []entity.Friend) []Friend {
	result := []Friend{}
	for _, f := range friends {
		result = append(result, Friend{FriendID: f.FriendID, CreatedAt: f.CreatedAt})
	}

	return result
}

func ConvertFriendRequests(requests []entity.FriendRequest) []FriendRequest {
	result := []FriendRequest{}
	for _, r := range requests {
		result = append(result, FriendRequest{SenderID: r.SenderID, CreatedAt: r.CreatedAt})
	}

	return result
}

func ConvertReview(review *entity.MovieReview) Review {
	return Review{
		ID:           review.ID,
		UserID:       review.UserID,
		MovieID:      review.MovieID,
		MovieTitle:   review.MovieTitle,
		PosterPath:   review.PosterPath,
		Rating:       review.Rating,
		Content:      review.Content,
		LikedBy:      review.LikedBy,
		LikesCount:   review.LikesCount,
		CommentCount: review.CommentCount,
		CreatedAt:    review.CreatedAt,
	}
}

func ConvertReviews(reviews []entity.MovieReview) []Review {
	result := []Review{}
	for i := range reviews {
		result = append(result, ConvertReview(&reviews[i]))
	}

	return result
}

func ConvertReply(reply *entity.Reply) Reply {
	return Reply{
		ID:         reply.ID,
		UserID:     reply.UserID,
		Content:    reply.Content,
		LikedBy:    reply.LikedBy,
		LikesCount: reply.LikesCount,
		MovieID:    reply.MovieID,
		MovieTitle: reply.MovieTitle,
		PosterPath: reply.PosterPath,
		CreatedAt:  reply.CreatedAt,
	}
}

func ConvertReplies(replies []entity.Reply) []Reply {
	result := []Reply{}
	for i := range replies {
		result = append(result, ConvertReply(&replies[i]))
	}

	return result
}

func ConvertQuestion(question *entity.CommunityQuestion) Question {
	return Question{
		ID:           question.ID,
		UserID:       question.UserID,
		Content:      question.Content,
		LikedBy:      question.LikedBy,
		LikesCount:   question.LikesCount,
		CommentCount: question.CommentCount,
		CreatedAt:    question.CreatedAt,
	}
}

func ConvertQuestions(questions []entity.CommunityQuestion) []Question {
	result := []Question{}
	for i := range questions {
		result = append(result, ConvertQuestion(&questions[i]))
	}

	return result
}

// ConvertPoll hides the voted-user set from clients; whether the viewer
// already voted is reported as a flag instead.
func ConvertPoll(poll *entity.MoviePoll, viewerID string) Poll {
	options := []PollOption{}
	for _, opt := range poll.Options {
		options = append(options, PollOption{ID: opt.ID, Text: opt.Text, Votes: opt.Votes})
	}

	voted := false
	for _, id := range poll.VotedUserIDs {
		if id == viewerID {
			voted = true
			break
		}
	}

	return Poll{
		ID:         poll.ID,
		UserID:     poll.UserID,
		Question:   poll.Question,
		Options:    options,
		TotalVotes: poll.TotalVotes,
		Voted:      voted,
		LikedBy:    poll.LikedBy,
		LikesCount: poll.LikesCount,
		CreatedAt:  poll.CreatedAt,
	}
}

func ConvertPolls(polls []entity.MoviePoll, viewerID string) []Poll {
	result := []Poll{}
	for i := range polls {
		result = append(result, ConvertPoll(&polls[i], viewerID))
	}

	return result
}

func ConvertActivities(activities []entity.Activity) []Activity {
	result := []Activity{}
	for _, a := range activities {
		result = append(result, Activity{
			ID:         a.ID,
			Type:       string(a.Type),
			MovieID:    a.MovieID,
			MovieTitle: a.MovieTitle,
			PosterPath: a.PosterPath,
			Content:    a.Content,
			Rating:     a.Rating,
			CreatedAt:  a.CreatedAt,
		})
	}

	return result
}

func ConvertStats(stats *entity.UserStats) GetMyStatsResponse {
	buckets := map[string]int64{}
	for k, v := range stats.RatingBuckets {
		buckets[k] = v
	}

	return GetMyStatsResponse{
		TotalRatings:   stats.TotalRatings,
		TotalComments:  stats.TotalComments,
		TotalReplies:   stats.TotalReplies,
		TotalLikes:     stats.TotalLikes,
		RatingBuckets:  buckets,
		CurrentStreak:  stats.CurrentStreak,
		LongestStreak:  stats.LongestStreak,
		LastActivityAt: stats.LastActivityAt,
	}
}
