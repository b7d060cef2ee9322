// Package scenario runs scripted playthroughs against a session.
//
// Scripts are Lua files that build a Scenario and return it:
//
//	local s = Scenario.new("first breakthrough")
//	s:complete_research("ml_fundamentals")
//	s:start_research("neural_networks", 20)
//	s:start_research("transformers", 10):fails("RESEARCH_LOCKED")
//	s:end_turn(3)
//	s:expect({turn = 4, active = {"neural_networks"}})
//	return s
//
// Loading only records steps; Run applies them in order and stops at the
// first step that does not behave as scripted.
package scenario
