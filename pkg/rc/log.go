package rc

import "github.com/sirupsen/logrus"

// log is silent by default (it starts at Warn level, see init below);
// collect_cycles phase transitions and reclamation counts are emitted at
// Debug level only. It must never sit on
// the Strong/Weak clone-or-release hot path, only on the much rarer
// CollectCycles call.
var log = logrus.New()

// SetLogLevel adjusts how verbosely CollectCycles reports its phases.
// Demo/diagnostic code (see cmd/purplerc) raises this to Debug; library
// consumers normally leave it at the default Warn level.
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

func init() {
	log.SetLevel(logrus.WarnLevel)
}
