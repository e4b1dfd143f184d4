package eventbus

import (
	"convocast-go/internal/platform/logging"
)

// SetupLogging mirrors pipeline progress events into the structured log.
// Called once at bootstrap; subscriptions live for the process lifetime.
// Per-segment synthesis progress is published on the worker-pool bus, so
// those handlers attach there; episode and audio milestones are
// synchronous.
func SetupLogging(logger *logging.Logger) error {
	type sub struct {
		topic string
		fn    interface{}
	}

	syncSubs := []sub{
		{EventEpisodeStarted, func(data EpisodeEventData) {
			logger.InfoTag("EPISODE", "starting %d/%d: %s", data.Index, data.Total, data.Title)
		}},
		{EventEpisodeCompleted, func(data EpisodeEventData) {
			logger.InfoTag("EPISODE", "completed %s -> %s", data.Title, data.AudioPath)
		}},
		{EventEpisodeFailed, func(data EpisodeEventData) {
			logger.ErrorTag("EPISODE", "failed %s: %s", data.Title, data.Error)
		}},
		{EventAudioCombined, func(data AudioEventData) {
			logger.InfoTag("AUDIO", "combined %d segments into %s", data.Segments, data.FilePath)
		}},
		{EventAudioValidated, func(data AudioEventData) {
			logger.DebugTag("AUDIO", "validated %s (%.1fs)", data.FilePath, data.Duration)
		}},
	}
	asyncSubs := []sub{
		{EventTTSCompleted, func(data SynthesisEventData) {
			logger.DebugTag("TTS", "segment %d (%s) done via %s", data.Segment, data.Speaker, data.Engine)
		}},
		{EventTTSFailed, func(data SynthesisEventData) {
			logger.WarnTag("TTS", "segment %d (%s) failed: %s", data.Segment, data.Speaker, data.Error)
		}},
	}

	for _, s := range syncSubs {
		if err := Subscribe(s.topic, s.fn); err != nil {
			return err
		}
	}
	for _, s := range asyncSubs {
		if err := SubscribeAsync(s.topic, s.fn); err != nil {
			return err
		}
	}
	return nil
}
