// Copyright 2026 Fieldside Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package source defines the adapter boundary between the ingestion
// pipeline and the external tools that hold play material.
//
// An Adapter serves one source family: mail digests or social posts. The
// pipeline only ever sees Items; how an adapter produces them (which CLI
// it shells out to, which flags it passes) stays behind the interface.
//
// # Implementation Packages
//
//   - source/gog: mail digests via the gog mail CLI
//   - source/bird: social posts via the bird timeline CLI
//   - source/mock: test doubles with injectable function fields
//
// Adapters that expose a pending queue at the source additionally
// implement ProcessedMarker, which the pipeline type-asserts for; items
// are marked processed regardless of ingestion outcome so a failing item
// cannot wedge the queue.
//
// NewCachingAdapter decorates any adapter with an LRU fetch cache. The
// refresh pass uses it so repeated visits to the same item within one run
// cost a single source invocation.
package source
