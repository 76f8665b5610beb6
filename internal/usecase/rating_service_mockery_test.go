package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/openfantasy/dota-fantasy/internal/domain/competition"
	"github.com/openfantasy/dota-fantasy/internal/domain/fantasy"
	competitionmock "github.com/openfantasy/dota-fantasy/internal/mocks/domain/competition"
	fantasymock "github.com/openfantasy/dota-fantasy/internal/mocks/domain/fantasy"
	playermock "github.com/openfantasy/dota-fantasy/internal/mocks/domain/player"
)

func TestRatingService_CompetitionRating_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	competitionRepo := competitionmock.NewRepository(t)
	fantasyRepo := fantasymock.NewRepository(t)
	playerRepo := playermock.NewRepository(t)

	service := NewRatingService(competitionRepo, fantasyRepo, playerRepo, fantasy.DefaultRules())
	competitionID := int64(1)

	competitionRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), competitionID).
		Return(competition.Competition{ID: competitionID, Name: "The International"}, true, nil).
		Once()
	fantasyRepo.
		On("ListTeamsByCompetition", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), competitionID).
		Return([]fantasy.Team{
			{ID: 2, CompetitionID: competitionID, Name: "Night Owls", Result: 98.25},
			{ID: 1, CompetitionID: competitionID, Name: "Storm Ravens", Result: 120.5},
		}, nil).
		Once()

	got, err := service.CompetitionRating(ctx, competitionID)
	if err != nil {
		t.Fatalf("competition rating: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected row count: got=%d want=2", len(got))
	}
	if got[0].TeamID != 1 || got[0].Rank != 1 {
		t.Fatalf("unexpected leader: got team=%d rank=%d", got[0].TeamID, got[0].Rank)
	}
	if got[1].TeamID != 2 || got[1].Rank != 2 {
		t.Fatalf("unexpected runner-up: got team=%d rank=%d", got[1].TeamID, got[1].Rank)
	}
}

func TestRatingService_CompetitionRating_NotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	competitionRepo := competitionmock.NewRepository(t)
	fantasyRepo := fantasymock.NewRepository(t)
	playerRepo := playermock.NewRepository(t)

	service := NewRatingService(competitionRepo, fantasyRepo, playerRepo, fantasy.DefaultRules())
	competitionID := int64(404)

	competitionRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), competitionID).
		Return(competition.Competition{}, false, nil).
		Once()

	_, err := service.CompetitionRating(ctx, competitionID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRatingService_TourRating_RepoErrorUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	competitionRepo := competitionmock.NewRepository(t)
	fantasyRepo := fantasymock.NewRepository(t)
	playerRepo := playermock.NewRepository(t)

	service := NewRatingService(competitionRepo, fantasyRepo, playerRepo, fantasy.DefaultRules())
	tourID := int64(7)
	repoErr := errors.New("connection reset")

	competitionRepo.
		On("GetTourByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), tourID).
		Return(competition.Tour{ID: tourID}, true, nil).
		Once()
	fantasyRepo.
		On("ListTeamToursByTour", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), tourID).
		Return(nil, repoErr).
		Once()

	_, err := service.TourRating(ctx, tourID)
	if !errors.Is(err, repoErr) {
		t.Fatalf("expected repo error, got %v", err)
	}
}
