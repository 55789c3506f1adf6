/*
Package ports defines the driven ports (interfaces) for the quizpath engine.

These interfaces decouple path resolution from where question definitions live,
allowing the engine to read questionnaires from a Loam repository, a single
YAML/JSON/TOML file or plain Go values.

# Key Interfaces

  - QuestionLoader: Returns the ordered question list (e.g., from Loam or Memory).
  - Watchable: Optional; signals that the underlying definitions changed.
*/
package ports
