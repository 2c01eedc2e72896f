package orchestrator

import "errors"

// ErrAmbiguousConfirmation is returned by Advance when a reply to a
// pending confirmation matches neither the affirmative nor the negative
// grammar. The pending state is preserved for another attempt; the
// utterance itself stays in the history.
var ErrAmbiguousConfirmation = errors.New("ambiguous confirmation reply")
