// Package handlers exposes the back-office services over HTTP.
package handlers

import (
	"net/http"

	"github.com/sinthiyatelecom/backoffice/internal/services"
	"github.com/sirupsen/logrus"
)

// fail writes err with its mapped status. Storage failures are logged with
// the request path since the client only sees a generic retry message.
func fail(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, err error, action string) {
	if services.StatusFor(err) == http.StatusInternalServerError {
		log.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("failed to " + action)
	}
	services.SendServiceError(w, err, action)
}
