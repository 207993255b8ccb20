/*
Package assembler 在调用模型之前把上下文压进预算：

  - Packer 按相关度顺序把检索到的文档装入 token 预算，并记住已装入的文档，
    同一次运行中重复装箱不会出现同一文档两次。
  - TrimConversation 从最早的一端丢弃历史消息，直到满足 token 预算或窗口大小。

两者都不修改输入，结果每次按需重新计算，不做持久化。
*/
package assembler
