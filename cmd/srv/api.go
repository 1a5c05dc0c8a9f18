package main

import (
	"log"
	"net/http"

	"github.com/reelmates/backend/pkg/router"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadStore()
	s.loadRedis()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	s.server = &http.Server{
		Addr:    s.configs.ApiServer.Address(),
		Handler: s.router.Handler(),
	}

	log.Printf("Starting server on %s\n", s.configs.ApiServer.Address())
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.configs, s.logger)

	// Public reads.
	router.GET(s.router, "/getUser", s.userDomain.Get)
	router.GET(s.router, "/getReviews", s.reviewDomain.GetReviews)
	router.GET(s.router, "/getMovieReplies", s.reviewDomain.GetMovieReplies)
	router.GET(s.router, "/getQuestions", s.questionDomain.GetQuestions)
	router.GET(s.router, "/getComments", s.questionDomain.GetComments)
	router.GET(s.router, "/getPolls", s.pollDomain.GetPolls)

	authRouter := s.router.Group("")
	authRouter.Use(s.router.RequireAuth())
	{
		router.POST(authRouter, "/createUser", s.userDomain.Create)
		router.POST(authRouter, "/updateTopFavorites", s.userDomain.UpdateTopFavorites)

		router.POST(authRouter, "/sendFriendRequest", s.relationshipDomain.SendFriendRequest)
		router.POST(authRouter, "/acceptFriendRequest", s.relationshipDomain.AcceptFriendRequest)
		router.POST(authRouter, "/declineFriendRequest", s.relationshipDomain.DeclineFriendRequest)
		router.POST(authRouter, "/cancelFriendRequest", s.relationshipDomain.CancelFriendRequest)
		router.POST(authRouter, "/removeFriend", s.relationshipDomain.RemoveFriend)
		router.GET(authRouter, "/getFriendshipStatus", s.relationshipDomain.GetFriendshipStatus)
		router.GET(authRouter, "/getFriends", s.relationshipDomain.GetFriends)
		router.GET(authRouter, "/getFriendRequests", s.relationshipDomain.GetFriendRequests)

		router.POST(authRouter, "/createReview", s.reviewDomain.CreateReview)
		router.POST(authRouter, "/toggleReviewLike", s.reviewDomain.ToggleReviewLike)
		router.POST(authRouter, "/submitMovieReply", s.reviewDomain.SubmitMovieReply)
		router.POST(authRouter, "/toggleMovieReplyLike", s.reviewDomain.ToggleMovieReplyLike)

		router.POST(authRouter, "/createQuestion", s.questionDomain.CreateQuestion)
		router.POST(authRouter, "/toggleQuestionLike", s.questionDomain.ToggleQuestionLike)
		router.POST(authRouter, "/addComment", s.questionDomain.AddComment)
		router.POST(authRouter, "/toggleCommentLike", s.questionDomain.ToggleCommentLike)

		router.POST(authRouter, "/createPoll", s.pollDomain.CreatePoll)
		router.POST(authRouter, "/togglePollLike", s.pollDomain.TogglePollLike)
		router.POST(authRouter, "/submitPollVote", s.pollDomain.SubmitPollVote)

		router.GET(authRouter, "/getMyActivities", s.activityDomain.GetMyActivities)
		router.GET(authRouter, "/getMyStats", s.statisticDomain.GetMyStats)
	}
}
