/*
Package quizpath is a path engine for branching questionnaires.

Given an ordered set of questions, the respondent's recorded answers and an
optional profile, it decides which question comes next, whether a question
currently applies, and how far along the respondent is. Conditions are written
in a small expression language ("answer === 'under-18'",
"answers.q10.includes('business')", "profile.country === 'BR'") that is parsed
once when the question set is loaded.

# Concept

The engine is stateless. The host application owns the session: it records
answers, asks the engine for the next question and renders it. Question
definitions come from a loader (Loam Markdown repository, a YAML/JSON/TOML
file, or Go values via the dsl package), are validated as a whole and then
never change.

# Key Features

  - Load-time validation: syntax errors, dangling targets, duplicate ids and
    relevance cycles are reported together before any navigation happens.
  - Branch, default and sequential routing that always skips irrelevant questions.
  - Relevance-aware progress that may go down when an answer opens new questions.
  - Lifecycle hooks for logging and Prometheus metrics.

# Usage

	package main

	import (
		"fmt"
		"log"

		"github.com/aretw0/quizpath"
		"github.com/aretw0/quizpath/pkg/domain"
	)

	func main() {
		// Reads questions from a Loam repository (directory) or a single file.
		eng, err := quizpath.New("./questions")
		if err != nil {
			log.Fatal(err)
		}

		answers := domain.Answers{}
		current := eng.Start(answers, nil)
		for current != "" {
			answer := ask(current) // host-provided I/O
			answers = answers.With(current, answer)

			current, err = eng.ResolveNext(current, answer, answers, nil)
			if err != nil {
				log.Fatal(err)
			}
			fmt.Printf("%d%% done\n", eng.Progress(answers, nil))
		}
	}
*/
package quizpath
