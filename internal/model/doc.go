// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model holds the plain data of a render pass: the viewport onto the
// complex plane, the output resolution, the iteration cap and the row ranges
// that the partition engine hands to its tasks.
//
// # Core Concepts
//
//   - Viewport: center and radius of the square region of the plane mapped
//     onto the image.
//
//   - Resolution: pixel dimensions, fixed per run.
//
//   - RowRange: a contiguous, inclusive slice of rows. Splitting a range
//     always yields two adjacent, disjoint halves whose union is the parent,
//     which is what lets tasks write a shared framebuffer without locks.
//
//   - Params: the immutable bundle configured once before a pass starts.
package model
