package track

import (
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "track")
