// Package events defines the typed orchestration event contract.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - phase.*
//   - user_input.*
//   - assistant_response.*
//   - tool_call.*
//   - assistant_playback.*
//   - language.*
//
// Semantics used across the package:
//
//   - Segment: append-only text piece emitted in stream order.
//   - Final: terminal immutable text/state for the current turn phase.
//   - Ended/Interrupted: lifecycle boundary for playback.
//
// phase events
//
//   - PhaseChanged (phase.changed): the orchestrator moved to a new phase.
//     This is the only event the presentation layer strictly needs.
//
// user_input events
//
//   - UserTranscriptInterim (user_input.transcript_interim): mutable interim
//     transcript snapshot.
//   - UserTranscriptFinal (user_input.transcript_final): terminal full
//     transcript for the utterance.
//
// assistant_response events
//
//   - AssistantResponseFinal (assistant_response.final): the reply text that
//     will be spoken.
//
// tool_call events
//
//   - ToolCallStarted (tool_call.started): tool execution started.
//   - ToolCallCompleted (tool_call.completed): tool execution completed.
//   - ToolCallFailed (tool_call.failed): tool execution failed; the failure
//     is surfaced to the model, not to the user.
//
// assistant_playback events
//
//   - AssistantPlaybackEnded (assistant_playback.ended): playback finished
//     normally.
//   - AssistantPlaybackInterrupted (assistant_playback.interrupted): playback
//     was cut short by a user interrupt.
//
// language events
//
//   - LanguageSwitched (language.switched): the active locale for speech
//     recognition and synthesis changed.
package events
