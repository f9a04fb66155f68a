// Package trim prunes an ontology DAG to a useful size range.
//
// Two independent policies exist, selected upstream by a thresholding
// collaborator that hands this package a plain list of term IDs:
//
//   - [Bottom] removes terms that are too small or specific to keep as
//     independent nodes, re-parenting their gene annotations upward so
//     nothing reachable from the surviving ancestors is lost.
//   - [Top] removes terms that are too generic, discarding them outright
//     together with their direct gene annotations.
//
// Both operate on working copies split and reversed from the base DAG and
// return a freshly merged [Result]; the caller's DAG is never touched, so
// trimming different threshold configurations from the same base is
// embarrassingly parallel.
package trim
