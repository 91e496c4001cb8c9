//go:build mage

package main

import "os"

// Rank ranks the sections in structured/ for the job in job.yaml, or the file
// named by OUTLINE_ENGINE_JOB_FILE.
func Rank() error {
	job := os.Getenv("OUTLINE_ENGINE_JOB_FILE")
	if job == "" {
		job = "job.yaml"
	}
	return run("rank", "--job-file", job)
}
