package eventbus

// Topic names a bus event.
type Topic string

// Topics emitted or consumed by the simulation core.
const (
	TopicStateChanged = Topic("stateChanged")
	TopicStateLoaded  = Topic("stateLoaded")

	TopicTurnStart  = Topic("turn:start")
	TopicTurnEnd    = Topic("turn:end")
	TopicTurnEnding = Topic("turn:ending")
	TopicTurnEnded  = Topic("turn:ended")

	TopicPhaseChanged    = Topic("phase:changed")
	TopicPhaseAction     = Topic("phase:action")
	TopicPhaseResolution = Topic("phase:resolution")

	TopicEventsCheck    = Topic("events:check")
	TopicEventsAdded    = Topic("events:added")
	TopicEventsResolved = Topic("events:resolved")

	TopicTimeAdvanced           = Topic("time:advanced")
	TopicTimeCompressionChanged = Topic("time:compression:changed")

	TopicResearchStarted      = Topic("research:started")
	TopicResearchComplete     = Topic("research:complete")
	TopicResearchBreakthrough = Topic("research:breakthrough")
	TopicResearchCompleted    = Topic("research:completed")
	TopicResearchFailed       = Topic("research:failed")

	TopicDeploymentActive  = Topic("deployment:active")
	TopicDeploymentRemoved = Topic("deployment:removed")
	TopicDeploymentFailed  = Topic("deployment:failed")

	TopicResourcesUpdated       = Topic("resources:updated")
	TopicResourcesSpent         = Topic("resources:spent")
	TopicComputingAllocated     = Topic("computing:allocated")
	TopicComputingDeallocated   = Topic("computing:deallocated")
	TopicComputingFailed        = Topic("resource:computing:failed")
	TopicSpendFailed            = Topic("resource:spend:failed")
	TopicResourceEffectsUpdated = Topic("resource:effects:updated")
)
