// Package logger provides account and betting activity logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// ActivityLogger records user-visible account, betting and league events.
// Tokens and passwords are never logged.
type ActivityLogger struct {
	*logrus.Entry
}

// NewActivityLogger creates a new activity logger.
func NewActivityLogger(baseLogger *logrus.Logger) *ActivityLogger {
	return &ActivityLogger{
		Entry: baseLogger.WithField("component", "activity"),
	}
}

// LogLogin logs a successful login.
func (al *ActivityLogger) LogLogin(userID, email string) {
	al.WithFields(logrus.Fields{
		"event_type": "login",
		"user_id":    userID,
		"email":      email,
	}).Info("User logged in")
}

// LogLogout logs the end of a session.
func (al *ActivityLogger) LogLogout(reason string) {
	al.WithFields(logrus.Fields{
		"event_type": "logout",
		"reason":     reason,
	}).Info("User logged out")
}

// LogRegistration logs an account creation.
func (al *ActivityLogger) LogRegistration(userID, email string) {
	al.WithFields(logrus.Fields{
		"event_type": "registration",
		"user_id":    userID,
		"email":      email,
	}).Info("Account registered")
}

// LogProfileChange logs a profile update or deletion.
func (al *ActivityLogger) LogProfileChange(userID, change string) {
	al.WithFields(logrus.Fields{
		"event_type": "profile_" + change,
		"user_id":    userID,
	}).Info("Profile changed")
}

// LogBetSubmitted logs a created or updated bet.
func (al *ActivityLogger) LogBetSubmitted(action, raceID string, betID, p10ID, dnfID int) {
	al.WithFields(logrus.Fields{
		"event_type": "bet_" + action,
		"race_id":    raceID,
		"bet_id":     betID,
		"p10_id":     p10ID,
		"dnf_id":     dnfID,
	}).Info("Bet submitted")
}

// LogBetDeleted logs a deleted bet.
func (al *ActivityLogger) LogBetDeleted(raceID string, betID int) {
	al.WithFields(logrus.Fields{
		"event_type": "bet_delete",
		"race_id":    raceID,
		"bet_id":     betID,
	}).Info("Bet deleted")
}

// LogLeagueJoined logs joining a league.
func (al *ActivityLogger) LogLeagueJoined(leagueID int, leagueName string, viaLink bool) {
	al.WithFields(logrus.Fields{
		"event_type":  "league_join",
		"league_id":   leagueID,
		"league_name": leagueName,
		"via_link":    viaLink,
	}).Info("League joined")
}

// LogLeagueCreated logs a league creation.
func (al *ActivityLogger) LogLeagueCreated(leagueID int, leagueName string, private bool) {
	al.WithFields(logrus.Fields{
		"event_type":  "league_create",
		"league_id":   leagueID,
		"league_name": leagueName,
		"private":     private,
	}).Info("League created")
}
