// Package engine contains the kitchen simulation: stations, customers, pickups
// and the match that drives them.
//
// ARCHITECTURAL RULE: nothing in here schedules itself. Match.Advance is the one
// per-frame entry point and calls every timed component in a fixed order. Stations
// refer to cooks by player.ID and report outcomes through the Referee handle.
package engine
