// Package service orchestrates ingestion and the model pipeline over
// the data sources, repositories, and pure computation stages.
package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// DataValidator validates incoming plays and games before persistence.
// Records failing validation are rejected outright, never patched: a
// play with a missing team or an impossible week is a feed problem, not
// something to repair locally.
type DataValidator struct {
	validate *validator.Validate
	log      *logrus.Logger
}

// NewDataValidator creates a new data validator
func NewDataValidator(log *logrus.Logger) *DataValidator {
	return &DataValidator{
		validate: validator.New(),
		log:      log,
	}
}

// ValidatePlay validates a play record for required fields and ranges
func (v *DataValidator) ValidatePlay(play *models.PlayRecord) []string {
	var errors []string

	if err := v.validate.Struct(play); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			errors = append(errors, fmt.Sprintf("%s failed %s validation", fieldErr.Field(), fieldErr.Tag()))
		}
	}

	if play.OffenseTeam != "" && play.OffenseTeam == play.DefenseTeam {
		errors = append(errors, fmt.Sprintf("offense and defense are both %s", play.OffenseTeam))
	}

	// EPA magnitudes beyond a touchdown-and-change indicate a feed
	// glitch rather than a real play.
	if play.EPA != nil && (*play.EPA < -15 || *play.EPA > 15) {
		errors = append(errors, fmt.Sprintf("EPA out of plausible range, got %v", *play.EPA))
	}

	return errors
}

// ValidateGame validates a game record for required fields and ranges
func (v *DataValidator) ValidateGame(game *models.Game) []string {
	var errors []string

	if err := v.validate.Struct(game); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			errors = append(errors, fmt.Sprintf("%s failed %s validation", fieldErr.Field(), fieldErr.Tag()))
		}
	}

	if game.HomeTeam != "" && game.HomeTeam == game.AwayTeam {
		errors = append(errors, fmt.Sprintf("game has %s playing itself", game.HomeTeam))
	}

	// A score present on only one side is worse than no score at all.
	if (game.HomeScore == nil) != (game.AwayScore == nil) {
		errors = append(errors, "game has a score for only one team")
	}

	if game.HomeScore != nil && (*game.HomeScore < 0 || *game.AwayScore < 0) {
		errors = append(errors, "negative score")
	}

	if game.TotalLine != nil && *game.TotalLine <= 0 {
		errors = append(errors, fmt.Sprintf("total line must be positive, got %v", *game.TotalLine))
	}

	return errors
}

// FilterPlays returns the plays passing validation and the number
// rejected
func (v *DataValidator) FilterPlays(plays []models.PlayRecord) ([]models.PlayRecord, int) {
	valid := make([]models.PlayRecord, 0, len(plays))
	rejected := 0
	for i := range plays {
		if errs := v.ValidatePlay(&plays[i]); len(errs) > 0 {
			rejected++
			if v.log != nil {
				v.log.WithFields(logrus.Fields{
					"game_id": plays[i].GameID,
					"week":    plays[i].Week,
					"errors":  errs,
				}).Debug("Rejected play record")
			}
			continue
		}
		valid = append(valid, plays[i])
	}
	return valid, rejected
}

// FilterGames returns the games passing validation and the number
// rejected
func (v *DataValidator) FilterGames(games []models.Game) ([]models.Game, int) {
	valid := make([]models.Game, 0, len(games))
	rejected := 0
	for i := range games {
		if errs := v.ValidateGame(&games[i]); len(errs) > 0 {
			rejected++
			if v.log != nil {
				v.log.WithFields(logrus.Fields{
					"game_id":   games[i].ID,
					"week":      games[i].Week,
					"home_team": games[i].HomeTeam,
					"errors":    errs,
				}).Warn("Rejected game record")
			}
			continue
		}
		valid = append(valid, games[i])
	}
	return valid, rejected
}
