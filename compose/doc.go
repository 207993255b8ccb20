/*
Package compose 提供可组合的执行阶段（Stage）及其组合算子。

一个 Stage 是带类型的变换，同时具备两种调用契约：

  - Invoke：阻塞直到得到完整结果
  - Stream：阻塞执行，返回前把零到多个 Chunk 交给回调，最终返回与 Invoke 相同的结果；
    不支持增量产出的阶段退化为一个最终块

组合算子只构建新的 Stage，不修改子阶段：

  - Sequence：串行，前一阶段的输出是后一阶段的输入；流式调用只流式执行最后一个阶段
  - Parallel：同一输入扇出到多个分支并发执行，按键汇总为 map；任一分支失败即中止
  - Assign：输入为 map，各分支以原始输入计算，结果合并到输入的副本中
  - Passthrough：输出输入的副本

类型不兼容、空组合、重复键等问题在构建时报告，不会拖到首次调用。

Engine 在 Stage 之上提供按内容寻址的结果缓存与统一的开始/结束/错误通知。
*/
package compose
