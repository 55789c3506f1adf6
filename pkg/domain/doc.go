/*
Package domain contains the core records of the questionnaire path engine.

It defines the entities the engine reasons about and the error taxonomy it
reports. This package is kept pure and free of external dependencies like
I/O or persistence; parsing and evaluation live in pkg/expr and the
compiled, queryable form lives in the root package.

# Key Entities

  - Question: A navigable node with ordered branches, an optional default
    link, an optional relevance predicate and a priority.
  - Branch: A (condition, target) pair evaluated in declared order.
  - Answers: The caller-owned map of recorded answers, keyed by question id.
  - Profile: User profile data that conditions can read.
  - LifecycleHooks: Optional callbacks the host can use for observability.
*/
package domain
