// Package editor holds the state behind an arithmetic editing session,
// independent of any GUI toolkit.
//
// An Editor is the live form for one proposed equation: the presentation
// layer feeds it the current name and expression on every change and reads
// back an Outcome to decide what to show and whether confirmation is allowed.
// A Session ties editors to the equation registry and the data collection and
// implements the add, edit, cancel and remove flows.
package editor
